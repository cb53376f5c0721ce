package policy

import "context"

// Effect is the outcome a rule produces when its condition matches.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Role is a requester role as stored in the employee directory.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleHR       Role = "HR"
	RoleFinance  Role = "FINANCE"
)

// Context is the read-only input to a policy decision.
type Context struct {
	RequesterID    int64
	RequesterEmail string
	RequesterRole  Role
	Action         string
	// TargetID is the employee the action refers to; zero means the action
	// has no specific target.
	TargetID int64
	Extra    map[string]string
}

// Directory provides identity lookups for conditions. Implementations must
// be read-only and cheap; the engine sits on the hot authorization path.
type Directory interface {
	IsDirectReport(ctx context.Context, managerID, employeeID int64) (bool, error)
	HasCostCenterAccess(ctx context.Context, email string, employeeID int64) (bool, error)
}

// Condition is a pure predicate over the policy context. An error marks the
// rule as non-matching; it never grants access.
type Condition func(ctx context.Context, pc Context, dir Directory) (bool, error)

// Rule is a single declarative authorization rule. Immutable once loaded.
type Rule struct {
	Name        string
	Description string
	Effect      Effect
	Priority    int
	// Actions the rule applies to; empty means all actions.
	Actions   []string
	Condition Condition

	// seq is the load order, used to break priority ties deterministically.
	seq int
}

func (r Rule) appliesTo(action string) bool {
	if len(r.Actions) == 0 {
		return true
	}
	for _, a := range r.Actions {
		if a == action {
			return true
		}
	}
	return false
}
