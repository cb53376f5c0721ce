// Package actions defines the closed set of operations the assistant may
// propose. Every proposal is decoded against this registry; a name outside
// it is rejected before authorization is even attempted.
package actions

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Action names.
const (
	SearchEmployee        = "search_employee"
	GetEmployeeBasic      = "get_employee_basic"
	GetManager            = "get_manager"
	GetDirectReports      = "get_direct_reports"
	GetHolidayBalance     = "get_holiday_balance"
	GetHolidayRequests    = "get_holiday_requests"
	SubmitHolidayRequest  = "submit_holiday_request"
	CancelHolidayRequest  = "cancel_holiday_request"
	GetPendingApprovals   = "get_pending_approvals"
	ApproveHolidayRequest = "approve_holiday_request"
	RejectHolidayRequest  = "reject_holiday_request"
	GetCompensation       = "get_compensation"
	GetSalaryHistory      = "get_salary_history"
	GetCompanyPolicies    = "get_company_policies"
	GetPolicyDetails      = "get_policy_details"

	GetEmployeeTenure          = "get_employee_tenure"
	GetManagerChain            = "get_manager_chain"
	GetTeamOverview            = "get_team_overview"
	GetDepartmentDirectory     = "get_department_directory"
	GetOrgChart                = "get_org_chart"
	GetTeamCalendar            = "get_team_calendar"
	GetTeamCompensationSummary = "get_team_compensation_summary"
	GetCompanyHolidays         = "get_company_holidays"
	GetAnnouncements           = "get_announcements"
	GetUpcomingEvents          = "get_upcoming_events"
)

// ErrUnknownAction marks a proposal whose name is outside the registry.
var ErrUnknownAction = errors.New("unknown action")

// Action is one decoded, validated operation.
type Action interface {
	Name() string
	// Target is the employee the action refers to, zero when the action is
	// self-scoped or has no employee target.
	Target() int64
}

// Params types. Field names follow the JSON the model emits.

type SearchEmployeeParams struct {
	Query string `mapstructure:"query" validate:"required,min=2"`
	Limit int    `mapstructure:"limit" validate:"omitempty,min=1,max=25"`
}

func (SearchEmployeeParams) Name() string  { return SearchEmployee }
func (SearchEmployeeParams) Target() int64 { return 0 }

type GetEmployeeBasicParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"required,gt=0"`
}

func (GetEmployeeBasicParams) Name() string    { return GetEmployeeBasic }
func (p GetEmployeeBasicParams) Target() int64 { return p.EmployeeID }

type GetManagerParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
}

func (GetManagerParams) Name() string    { return GetManager }
func (p GetManagerParams) Target() int64 { return p.EmployeeID }

type GetDirectReportsParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
}

func (GetDirectReportsParams) Name() string    { return GetDirectReports }
func (p GetDirectReportsParams) Target() int64 { return p.EmployeeID }

type GetHolidayBalanceParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
	Year       int   `mapstructure:"year" validate:"omitempty,min=2000,max=2100"`
}

func (GetHolidayBalanceParams) Name() string    { return GetHolidayBalance }
func (p GetHolidayBalanceParams) Target() int64 { return p.EmployeeID }

type GetHolidayRequestsParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
	Year       int   `mapstructure:"year" validate:"omitempty,min=2000,max=2100"`
}

func (GetHolidayRequestsParams) Name() string    { return GetHolidayRequests }
func (p GetHolidayRequestsParams) Target() int64 { return p.EmployeeID }

type SubmitHolidayRequestParams struct {
	StartDate string  `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	Days      float64 `mapstructure:"days" validate:"required,gt=0,lte=40"`
	Reason    string  `mapstructure:"reason" validate:"omitempty,max=500"`
}

func (SubmitHolidayRequestParams) Name() string  { return SubmitHolidayRequest }
func (SubmitHolidayRequestParams) Target() int64 { return 0 }

// ISO dates are lexically ordered, so a string compare is a date compare.
func (p *SubmitHolidayRequestParams) check() error {
	if p.EndDate < p.StartDate {
		return fmt.Errorf("end_date %s is before start_date %s", p.EndDate, p.StartDate)
	}
	return nil
}

type CancelHolidayRequestParams struct {
	RequestID int64 `mapstructure:"request_id" validate:"required,gt=0"`
}

func (CancelHolidayRequestParams) Name() string  { return CancelHolidayRequest }
func (CancelHolidayRequestParams) Target() int64 { return 0 }

type GetPendingApprovalsParams struct{}

func (GetPendingApprovalsParams) Name() string  { return GetPendingApprovals }
func (GetPendingApprovalsParams) Target() int64 { return 0 }

type ApproveHolidayRequestParams struct {
	RequestID int64  `mapstructure:"request_id" validate:"required,gt=0"`
	Reason    string `mapstructure:"reason" validate:"omitempty,max=500"`
}

func (ApproveHolidayRequestParams) Name() string  { return ApproveHolidayRequest }
func (ApproveHolidayRequestParams) Target() int64 { return 0 }

type RejectHolidayRequestParams struct {
	RequestID int64  `mapstructure:"request_id" validate:"required,gt=0"`
	Reason    string `mapstructure:"reason" validate:"omitempty,max=500"`
}

func (RejectHolidayRequestParams) Name() string  { return RejectHolidayRequest }
func (RejectHolidayRequestParams) Target() int64 { return 0 }

type GetCompensationParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
}

func (GetCompensationParams) Name() string    { return GetCompensation }
func (p GetCompensationParams) Target() int64 { return p.EmployeeID }

type GetSalaryHistoryParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
}

func (GetSalaryHistoryParams) Name() string    { return GetSalaryHistory }
func (p GetSalaryHistoryParams) Target() int64 { return p.EmployeeID }

type GetCompanyPoliciesParams struct{}

func (GetCompanyPoliciesParams) Name() string  { return GetCompanyPolicies }
func (GetCompanyPoliciesParams) Target() int64 { return 0 }

type GetPolicyDetailsParams struct {
	PolicyID int64 `mapstructure:"policy_id" validate:"required,gt=0"`
}

func (GetPolicyDetailsParams) Name() string  { return GetPolicyDetails }
func (GetPolicyDetailsParams) Target() int64 { return 0 }

type GetEmployeeTenureParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
}

func (GetEmployeeTenureParams) Name() string    { return GetEmployeeTenure }
func (p GetEmployeeTenureParams) Target() int64 { return p.EmployeeID }

type GetManagerChainParams struct {
	EmployeeID int64 `mapstructure:"employee_id" validate:"omitempty,gt=0"`
}

func (GetManagerChainParams) Name() string    { return GetManagerChain }
func (p GetManagerChainParams) Target() int64 { return p.EmployeeID }

type GetTeamOverviewParams struct{}

func (GetTeamOverviewParams) Name() string  { return GetTeamOverview }
func (GetTeamOverviewParams) Target() int64 { return 0 }

type GetDepartmentDirectoryParams struct {
	Department string `mapstructure:"department" validate:"required,min=2,max=100"`
}

func (GetDepartmentDirectoryParams) Name() string  { return GetDepartmentDirectory }
func (GetDepartmentDirectoryParams) Target() int64 { return 0 }

type GetOrgChartParams struct {
	RootEmployeeID int64 `mapstructure:"root_employee_id" validate:"omitempty,gt=0"`
	MaxDepth       int   `mapstructure:"max_depth" validate:"omitempty,min=1,max=5"`
}

func (GetOrgChartParams) Name() string  { return GetOrgChart }
func (GetOrgChartParams) Target() int64 { return 0 }

type GetTeamCalendarParams struct {
	Year  int `mapstructure:"year" validate:"omitempty,min=2000,max=2100"`
	Month int `mapstructure:"month" validate:"omitempty,min=1,max=12"`
}

func (GetTeamCalendarParams) Name() string  { return GetTeamCalendar }
func (GetTeamCalendarParams) Target() int64 { return 0 }

type GetTeamCompensationSummaryParams struct {
	ManagerID int64 `mapstructure:"manager_id" validate:"omitempty,gt=0"`
}

func (GetTeamCompensationSummaryParams) Name() string    { return GetTeamCompensationSummary }
func (p GetTeamCompensationSummaryParams) Target() int64 { return p.ManagerID }

type GetCompanyHolidaysParams struct {
	Year int `mapstructure:"year" validate:"omitempty,min=2000,max=2100"`
}

func (GetCompanyHolidaysParams) Name() string  { return GetCompanyHolidays }
func (GetCompanyHolidaysParams) Target() int64 { return 0 }

type GetAnnouncementsParams struct {
	Limit int `mapstructure:"limit" validate:"omitempty,min=1,max=25"`
}

func (GetAnnouncementsParams) Name() string  { return GetAnnouncements }
func (GetAnnouncementsParams) Target() int64 { return 0 }

type GetUpcomingEventsParams struct {
	DaysAhead int `mapstructure:"days_ahead" validate:"omitempty,min=1,max=365"`
}

func (GetUpcomingEventsParams) Name() string  { return GetUpcomingEvents }
func (GetUpcomingEventsParams) Target() int64 { return 0 }

var registry = map[string]func() Action{
	SearchEmployee:        func() Action { return &SearchEmployeeParams{} },
	GetEmployeeBasic:      func() Action { return &GetEmployeeBasicParams{} },
	GetManager:            func() Action { return &GetManagerParams{} },
	GetDirectReports:      func() Action { return &GetDirectReportsParams{} },
	GetHolidayBalance:     func() Action { return &GetHolidayBalanceParams{} },
	GetHolidayRequests:    func() Action { return &GetHolidayRequestsParams{} },
	SubmitHolidayRequest:  func() Action { return &SubmitHolidayRequestParams{} },
	CancelHolidayRequest:  func() Action { return &CancelHolidayRequestParams{} },
	GetPendingApprovals:   func() Action { return &GetPendingApprovalsParams{} },
	ApproveHolidayRequest: func() Action { return &ApproveHolidayRequestParams{} },
	RejectHolidayRequest:  func() Action { return &RejectHolidayRequestParams{} },
	GetCompensation:       func() Action { return &GetCompensationParams{} },
	GetSalaryHistory:      func() Action { return &GetSalaryHistoryParams{} },
	GetCompanyPolicies:    func() Action { return &GetCompanyPoliciesParams{} },
	GetPolicyDetails:      func() Action { return &GetPolicyDetailsParams{} },

	GetEmployeeTenure:          func() Action { return &GetEmployeeTenureParams{} },
	GetManagerChain:            func() Action { return &GetManagerChainParams{} },
	GetTeamOverview:            func() Action { return &GetTeamOverviewParams{} },
	GetDepartmentDirectory:     func() Action { return &GetDepartmentDirectoryParams{} },
	GetOrgChart:                func() Action { return &GetOrgChartParams{} },
	GetTeamCalendar:            func() Action { return &GetTeamCalendarParams{} },
	GetTeamCompensationSummary: func() Action { return &GetTeamCompensationSummaryParams{} },
	GetCompanyHolidays:         func() Action { return &GetCompanyHolidaysParams{} },
	GetAnnouncements:           func() Action { return &GetAnnouncementsParams{} },
	GetUpcomingEvents:          func() Action { return &GetUpcomingEventsParams{} },
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Known reports whether name is a registered action.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists all registered actions, sorted. Used by the system prompt and
// the policy CLI.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationError wraps a parameter problem for a known action.
type ValidationError struct {
	Action string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameters for %s: %v", e.Action, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Decode turns a proposal's name and raw parameter map into a typed,
// validated Action. Unknown names return ErrUnknownAction; parameter
// problems return a ValidationError. Extra parameters are ignored.
func Decode(name string, params map[string]any) (Action, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	action := build()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           action,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return nil, &ValidationError{Action: name, Err: err}
	}
	if err := validate.Struct(action); err != nil {
		return nil, &ValidationError{Action: name, Err: err}
	}
	if c, ok := action.(interface{ check() error }); ok {
		if err := c.check(); err != nil {
			return nil, &ValidationError{Action: name, Err: err}
		}
	}
	return action, nil
}
