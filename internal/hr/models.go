// Package hr is the HR data layer: employees, time off, compensation, and
// company policies, backed by SQLite.
package hr

import "time"

// Employee is a directory record.
type Employee struct {
	ID         int64  `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"preferred_name"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
	HireDate   string `json:"hire_date,omitempty"`
	ManagerID  int64  `json:"manager_id,omitempty"`
	CostCenter string `json:"cost_center,omitempty"`
}

// RequesterContext identifies the authenticated user for policy decisions.
type RequesterContext struct {
	EmployeeID int64  `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"preferred_name"`
	Role       string `json:"role"`
}

// HolidayBalance is the PTO balance for one employee and year.
type HolidayBalance struct {
	EmployeeID  int64   `json:"employee_id"`
	Year        int     `json:"year"`
	TotalDays   float64 `json:"total_days"`
	UsedDays    float64 `json:"used_days"`
	PendingDays float64 `json:"pending_days"`
	Remaining   float64 `json:"remaining"`
}

// Holiday request statuses.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// HolidayRequest is a time-off request.
type HolidayRequest struct {
	ID         int64      `json:"request_id"`
	EmployeeID int64      `json:"employee_id"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Days       float64    `json:"days"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DecidedBy  int64      `json:"decided_by,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// Compensation is one salary record; the latest row is the current package.
type Compensation struct {
	EmployeeID    int64   `json:"employee_id"`
	BaseSalary    float64 `json:"base_salary"`
	Currency      string  `json:"currency"`
	BonusTarget   float64 `json:"bonus_target,omitempty"`
	EffectiveDate string  `json:"effective_date"`
}

// CompanyPolicy is a published company policy document.
type CompanyPolicy struct {
	ID            int64  `json:"policy_id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Summary       string `json:"summary,omitempty"`
	Content       string `json:"content,omitempty"`
	EffectiveDate string `json:"effective_date,omitempty"`
}

// TenureInfo is how long an employee has been with the company.
type TenureInfo struct {
	EmployeeID     int64   `json:"employee_id"`
	Name           string  `json:"preferred_name"`
	HireDate       string  `json:"hire_date"`
	YearsOfService float64 `json:"years_of_service"`
}

// TeamOverview summarizes a manager's direct reports.
type TeamOverview struct {
	Manager  Employee   `json:"manager"`
	TeamSize int        `json:"team_size"`
	Members  []Employee `json:"members,omitempty"`
}

// OrgNode is one employee in the reporting tree.
type OrgNode struct {
	ID         int64     `json:"employee_id"`
	Name       string    `json:"preferred_name"`
	Title      string    `json:"title,omitempty"`
	Department string    `json:"department,omitempty"`
	Reports    []OrgNode `json:"direct_reports,omitempty"`
}

// TeamCompensationSummary aggregates current salaries across a team without
// exposing individual records.
type TeamCompensationSummary struct {
	ManagerID   int64   `json:"manager_id"`
	TeamSize    int     `json:"team_size"`
	Currency    string  `json:"currency"`
	MinSalary   float64 `json:"min_salary"`
	MaxSalary   float64 `json:"max_salary"`
	AvgSalary   float64 `json:"avg_salary"`
	TotalSalary float64 `json:"total_salary"`
}

// CompanyHoliday is one company-observed holiday.
type CompanyHoliday struct {
	Date   string `json:"holiday_date"`
	Name   string `json:"name"`
	IsPaid bool   `json:"is_paid"`
}

// Announcement is a company-wide announcement.
type Announcement struct {
	ID       int64  `json:"announcement_id"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Category string `json:"category,omitempty"`
	PostedBy string `json:"posted_by,omitempty"`
	PostedAt string `json:"posted_at"`
}

// CompanyEvent is a scheduled company event.
type CompanyEvent struct {
	ID          int64  `json:"event_id"`
	Title       string `json:"title"`
	Date        string `json:"event_date"`
	Time        string `json:"event_time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}
