package policy

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// Engine evaluates authorization rules against a request context.
//
// Rules are checked in priority order, highest first, ties broken by load
// order. The first rule whose condition matches decides the outcome. A
// condition error marks that rule as non-matching. If nothing matches the
// answer is deny.
type Engine struct {
	dir Directory

	mu      sync.Mutex // serializes writers
	rules   atomic.Pointer[[]Rule]
	nextSeq int
}

// NewEngine creates an engine with an empty rule set.
func NewEngine(dir Directory) *Engine {
	e := &Engine{dir: dir}
	empty := make([]Rule, 0)
	e.rules.Store(&empty)
	return e
}

// AddRule appends a rule and re-sorts the set. The swap is atomic; readers
// never observe a partially updated set.
func (e *Engine) AddRule(rule Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := *e.rules.Load()
	next := make([]Rule, len(current), len(current)+1)
	copy(next, current)
	rule.seq = e.nextSeq
	e.nextSeq++
	next = append(next, rule)
	sortRules(next)
	e.rules.Store(&next)
}

// Replace swaps in a whole new rule set, used at load and on hot reload.
func (e *Engine) Replace(rules []Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]Rule, len(rules))
	copy(next, rules)
	for i := range next {
		next[i].seq = i
	}
	e.nextSeq = len(next)
	sortRules(next)
	e.rules.Store(&next)
}

// Rules returns a snapshot of the active rule set in evaluation order.
func (e *Engine) Rules() []Rule {
	current := *e.rules.Load()
	out := make([]Rule, len(current))
	copy(out, current)
	return out
}

// IsAllowed evaluates the active rule set against pc. Deny by default.
func (e *Engine) IsAllowed(ctx context.Context, pc Context) bool {
	allowed, _, _ := e.Explain(ctx, pc)
	return allowed
}

// Explain evaluates like IsAllowed and also reports which rule matched.
// matched is false when the decision fell through to the default deny.
func (e *Engine) Explain(ctx context.Context, pc Context) (allowed bool, rule Rule, matched bool) {
	for _, r := range *e.rules.Load() {
		if !r.appliesTo(pc.Action) {
			continue
		}
		if r.Condition == nil {
			continue
		}
		ok, err := r.Condition(ctx, pc, e.dir)
		if err != nil {
			// Fail closed: an erroring condition never grants access.
			slog.Warn("policy condition failed", "rule", r.Name, "action", pc.Action, "error", err)
			continue
		}
		if ok {
			return r.Effect == EffectAllow, r, true
		}
	}
	return false, Rule{}, false
}

func sortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].seq < rules[j].seq
	})
}
