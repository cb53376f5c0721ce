// Package dispatch executes validated actions against the HR store and
// normalizes every failure into a structured result the orchestration loop
// can feed back to the model.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acmecorp/hrbot/internal/actions"
	"github.com/acmecorp/hrbot/internal/hr"
)

// Error kinds carried on failed results.
const (
	KindUnknownAction = "unknown_action"
	KindValidation    = "validation"
	KindToolExecution = "tool_execution"
)

// Result is the outcome of one action execution.
type Result struct {
	OK      bool   `json:"ok"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Failure classifies an error from actions.Decode or execution into a
// structured result.
func Failure(err error) Result {
	kind := KindToolExecution
	var ve *actions.ValidationError
	switch {
	case errors.Is(err, actions.ErrUnknownAction):
		kind = KindUnknownAction
	case errors.As(err, &ve):
		kind = KindValidation
	}
	return Result{Kind: kind, Message: err.Error()}
}

// Dispatcher routes actions to the HR store.
type Dispatcher struct {
	store  *hr.Store
	logger *slog.Logger
}

// New creates a dispatcher over the HR store.
func New(store *hr.Store, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{store: store, logger: logger}
}

// Execute runs one action on behalf of the requester. Authorization has
// already happened; this layer only validates existence and business rules.
// A panicking handler is contained and reported as an execution failure.
func (d *Dispatcher) Execute(ctx context.Context, requester hr.RequesterContext, act actions.Action) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("action handler panicked", "action", act.Name(), "panic", r)
			result = Result{Kind: KindToolExecution, Message: fmt.Sprintf("internal error executing %s", act.Name())}
		}
	}()

	payload, err := d.run(ctx, requester, act)
	if err != nil {
		d.logger.Warn("action failed", "action", act.Name(), "requester", requester.EmployeeID, "error", err)
		return Failure(fmt.Errorf("%s: %w", act.Name(), err))
	}
	return Result{OK: true, Payload: payload}
}

func (d *Dispatcher) run(ctx context.Context, requester hr.RequesterContext, act actions.Action) (any, error) {
	// Optional employee targets default to the requester.
	self := func(id int64) int64 {
		if id == 0 {
			return requester.EmployeeID
		}
		return id
	}
	thisYear := func(year int) int {
		if year == 0 {
			return time.Now().Year()
		}
		return year
	}

	switch a := act.(type) {
	case *actions.SearchEmployeeParams:
		return d.store.SearchEmployees(ctx, a.Query, a.Limit)

	case *actions.GetEmployeeBasicParams:
		return d.store.Employee(ctx, a.EmployeeID)

	case *actions.GetManagerParams:
		return d.store.Manager(ctx, self(a.EmployeeID))

	case *actions.GetDirectReportsParams:
		return d.store.DirectReports(ctx, self(a.EmployeeID))

	case *actions.GetHolidayBalanceParams:
		return d.store.HolidayBalance(ctx, self(a.EmployeeID), thisYear(a.Year))

	case *actions.GetHolidayRequestsParams:
		return d.store.HolidayRequests(ctx, self(a.EmployeeID), thisYear(a.Year))

	case *actions.SubmitHolidayRequestParams:
		return d.store.SubmitHolidayRequest(ctx, requester.EmployeeID, a.StartDate, a.EndDate, a.Days, a.Reason)

	case *actions.CancelHolidayRequestParams:
		return d.store.CancelHolidayRequest(ctx, requester.EmployeeID, a.RequestID)

	case *actions.GetPendingApprovalsParams:
		return d.store.PendingApprovals(ctx, requester.EmployeeID)

	case *actions.ApproveHolidayRequestParams:
		return d.store.DecideHolidayRequest(ctx, requester.EmployeeID, a.RequestID, true, a.Reason)

	case *actions.RejectHolidayRequestParams:
		return d.store.DecideHolidayRequest(ctx, requester.EmployeeID, a.RequestID, false, a.Reason)

	case *actions.GetCompensationParams:
		return d.store.Compensation(ctx, self(a.EmployeeID))

	case *actions.GetSalaryHistoryParams:
		return d.store.SalaryHistory(ctx, self(a.EmployeeID))

	case *actions.GetCompanyPoliciesParams:
		return d.store.CompanyPolicies(ctx)

	case *actions.GetPolicyDetailsParams:
		return d.store.PolicyDetails(ctx, a.PolicyID)

	case *actions.GetEmployeeTenureParams:
		return d.store.EmployeeTenure(ctx, self(a.EmployeeID))

	case *actions.GetManagerChainParams:
		return d.store.ManagerChain(ctx, self(a.EmployeeID))

	case *actions.GetTeamOverviewParams:
		return d.store.TeamOverview(ctx, requester.EmployeeID)

	case *actions.GetDepartmentDirectoryParams:
		return d.store.DepartmentDirectory(ctx, a.Department)

	case *actions.GetOrgChartParams:
		return d.store.OrgChart(ctx, a.RootEmployeeID, a.MaxDepth)

	case *actions.GetTeamCalendarParams:
		return d.store.TeamCalendar(ctx, requester.EmployeeID, thisYear(a.Year), a.Month)

	case *actions.GetTeamCompensationSummaryParams:
		return d.store.TeamCompensationSummary(ctx, self(a.ManagerID))

	case *actions.GetCompanyHolidaysParams:
		return d.store.CompanyHolidays(ctx, thisYear(a.Year))

	case *actions.GetAnnouncementsParams:
		return d.store.Announcements(ctx, a.Limit)

	case *actions.GetUpcomingEventsParams:
		return d.store.UpcomingEvents(ctx, a.DaysAhead)

	default:
		return nil, fmt.Errorf("%w: %T", actions.ErrUnknownAction, act)
	}
}
