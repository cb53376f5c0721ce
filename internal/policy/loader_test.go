package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestParseRules_ValidFile(t *testing.T) {
	rules, err := ParseRules([]byte(`rules:
  - name: allow_self
    description: self access
    effect: allow
    priority: 60
    actions: [get_compensation, " get_salary_history "]
    condition: is_self
  - name: deny_all
    effect: deny
    priority: 1
    condition: always
`))
	if err != nil {
		t.Fatalf("ParseRules error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Name != "allow_self" {
		t.Fatalf("expected allow_self, got %q", rules[0].Name)
	}
	if rules[0].Effect != EffectAllow {
		t.Fatalf("expected allow effect, got %q", rules[0].Effect)
	}
	if len(rules[0].Actions) != 2 || rules[0].Actions[1] != "get_salary_history" {
		t.Fatalf("expected trimmed actions, got %v", rules[0].Actions)
	}
	if rules[0].Condition == nil {
		t.Fatal("expected condition to be resolved")
	}
}

func TestParseRules_SkipsMalformedRules(t *testing.T) {
	rules, err := ParseRules([]byte(`rules:
  - description: no name here
    effect: allow
    condition: always
  - name: bad_effect
    effect: maybe
    condition: always
  - name: bad_condition
    effect: allow
    condition: requester_is_wizard
  - name: good
    effect: allow
    priority: 5
    condition: always
`))
	if err != nil {
		t.Fatalf("ParseRules error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 surviving rule, got %d", len(rules))
	}
	if rules[0].Name != "good" {
		t.Fatalf("expected good, got %q", rules[0].Name)
	}
}

func TestParseRules_InvalidYAML(t *testing.T) {
	if _, err := ParseRules([]byte("rules: [unclosed")); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestParseRules_Defaults(t *testing.T) {
	rules, err := ParseRules([]byte(DefaultRulesYAML))
	if err != nil {
		t.Fatalf("ParseRules error: %v", err)
	}
	if len(rules) != 7 {
		t.Fatalf("expected 7 default rules, got %d", len(rules))
	}
	for _, r := range rules {
		if r.Condition == nil {
			t.Fatalf("default rule %q has unresolved condition", r.Name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(DefaultRulesYAML), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("expected rules from file")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWatcher_RelevantMatchesExactPath(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(NewEngine(nil), filepath.Join(dir, "rules.yaml"))

	if !w.relevant(fsnotify.Event{Name: filepath.Join(dir, "rules.yaml"), Op: fsnotify.Write}) {
		t.Fatal("expected a write to the rule file to be relevant")
	}
	// On a case-sensitive filesystem RULES.yaml is a different file and must
	// not trigger a reload.
	if w.relevant(fsnotify.Event{Name: filepath.Join(dir, "RULES.yaml"), Op: fsnotify.Write}) {
		t.Fatal("expected a differently cased sibling to be ignored")
	}
	if w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}) {
		t.Fatal("expected an unrelated sibling to be ignored")
	}
	if w.relevant(fsnotify.Event{Name: filepath.Join(dir, "rules.yaml"), Op: fsnotify.Chmod}) {
		t.Fatal("expected chmod events to be ignored")
	}
}

func TestWatcher_ReloadSwapsRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(`rules:
  - name: v1
    effect: allow
    priority: 1
    condition: always
`), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	engine := NewEngine(nil)
	w := NewWatcher(engine, path)
	w.reload()

	if rules := engine.Rules(); len(rules) != 1 || rules[0].Name != "v1" {
		t.Fatalf("expected rule v1 after reload, got %v", rules)
	}

	if err := os.WriteFile(path, []byte(`rules:
  - name: v2
    effect: deny
    priority: 1
    condition: always
`), 0644); err != nil {
		t.Fatalf("rewrite rules: %v", err)
	}
	w.reload()

	if rules := engine.Rules(); len(rules) != 1 || rules[0].Name != "v2" {
		t.Fatalf("expected rule v2 after reload, got %v", rules)
	}

	// A broken file keeps the previous set.
	if err := os.WriteFile(path, []byte("rules: [broken"), 0644); err != nil {
		t.Fatalf("write broken rules: %v", err)
	}
	w.reload()
	if rules := engine.Rules(); len(rules) != 1 || rules[0].Name != "v2" {
		t.Fatalf("expected rule v2 to survive failed reload, got %v", rules)
	}
}
