package policy

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type ruleSpec struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Effect      string   `yaml:"effect"`
	Priority    int      `yaml:"priority"`
	Actions     []string `yaml:"actions"`
	Condition   string   `yaml:"condition"`
}

type fileSpec struct {
	Rules []ruleSpec `yaml:"rules"`
}

// LoadFile reads a YAML rule file. Malformed rules are logged and skipped;
// only an unreadable or unparsable document is an error, so a bad rule never
// takes the whole set down.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules parses YAML rule definitions in document order.
func ParseRules(data []byte) ([]Rule, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(spec.Rules))
	for i, rs := range spec.Rules {
		name := strings.TrimSpace(rs.Name)
		if name == "" {
			slog.Warn("skipping policy rule without name", "index", i)
			continue
		}

		effect, ok := parseEffect(rs.Effect)
		if !ok {
			slog.Warn("skipping policy rule with invalid effect", "rule", name, "effect", rs.Effect)
			continue
		}

		condID := strings.TrimSpace(rs.Condition)
		cond, ok := ConditionByID(condID)
		if !ok {
			slog.Warn("skipping policy rule with unknown condition", "rule", name, "condition", condID)
			continue
		}

		actions := make([]string, 0, len(rs.Actions))
		for _, a := range rs.Actions {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, a)
			}
		}

		rules = append(rules, Rule{
			Name:        name,
			Description: strings.TrimSpace(rs.Description),
			Effect:      effect,
			Priority:    rs.Priority,
			Actions:     actions,
			Condition:   cond,
		})
	}
	return rules, nil
}

func parseEffect(raw string) (Effect, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(EffectAllow):
		return EffectAllow, true
	case string(EffectDeny):
		return EffectDeny, true
	default:
		return "", false
	}
}
