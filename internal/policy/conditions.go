package policy

import "context"

// Condition ids form a closed, audited set. Rule files reference these by
// name; arbitrary expressions are never evaluated from configuration.
const (
	CondAlways                  = "always"
	CondIsSelf                  = "is_self"
	CondIsManager               = "is_manager"
	CondIsHR                    = "is_hr"
	CondIsFinance               = "is_finance"
	CondIsDirectReport          = "is_direct_report"
	CondIsManagerOfDirectReport = "is_manager_and_direct_report"
	CondFinanceCostCenterAccess = "finance_has_cost_center_access"
)

var conditions = map[string]Condition{
	CondAlways: func(_ context.Context, _ Context, _ Directory) (bool, error) {
		return true, nil
	},
	CondIsSelf: func(_ context.Context, pc Context, _ Directory) (bool, error) {
		// No explicit target means the action is scoped to the requester.
		return pc.TargetID == 0 || pc.RequesterID == pc.TargetID, nil
	},
	CondIsManager: func(_ context.Context, pc Context, _ Directory) (bool, error) {
		return pc.RequesterRole == RoleManager || pc.RequesterRole == RoleHR, nil
	},
	CondIsHR: func(_ context.Context, pc Context, _ Directory) (bool, error) {
		return pc.RequesterRole == RoleHR, nil
	},
	CondIsFinance: func(_ context.Context, pc Context, _ Directory) (bool, error) {
		return pc.RequesterRole == RoleFinance, nil
	},
	CondIsDirectReport:          isDirectReport,
	CondIsManagerOfDirectReport: isManagerOfDirectReport,
	CondFinanceCostCenterAccess: financeCostCenterAccess,
}

func isDirectReport(ctx context.Context, pc Context, dir Directory) (bool, error) {
	if pc.TargetID == 0 || dir == nil {
		return false, nil
	}
	return dir.IsDirectReport(ctx, pc.RequesterID, pc.TargetID)
}

func isManagerOfDirectReport(ctx context.Context, pc Context, dir Directory) (bool, error) {
	if pc.RequesterRole != RoleManager && pc.RequesterRole != RoleHR {
		return false, nil
	}
	return isDirectReport(ctx, pc, dir)
}

func financeCostCenterAccess(ctx context.Context, pc Context, dir Directory) (bool, error) {
	if pc.RequesterRole != RoleFinance {
		return false, nil
	}
	if pc.TargetID == 0 {
		return true, nil
	}
	if dir == nil {
		return false, nil
	}
	return dir.HasCostCenterAccess(ctx, pc.RequesterEmail, pc.TargetID)
}

// ConditionByID resolves a condition id from the closed registry.
func ConditionByID(id string) (Condition, bool) {
	cond, ok := conditions[id]
	return cond, ok
}

// ConditionIDs lists the valid condition ids, for diagnostics.
func ConditionIDs() []string {
	ids := make([]string, 0, len(conditions))
	for id := range conditions {
		ids = append(ids, id)
	}
	return ids
}
