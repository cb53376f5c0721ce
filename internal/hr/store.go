package hr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("hr: not found")

const schema = `
CREATE TABLE IF NOT EXISTS employee (
	employee_id INTEGER PRIMARY KEY,
	email       TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	title       TEXT,
	department  TEXT,
	role        TEXT NOT NULL DEFAULT 'EMPLOYEE',
	hire_date   TEXT,
	manager_id  INTEGER,
	cost_center TEXT
);
CREATE TABLE IF NOT EXISTS holiday_balance (
	employee_id  INTEGER NOT NULL,
	year         INTEGER NOT NULL,
	total_days   REAL NOT NULL,
	used_days    REAL NOT NULL DEFAULT 0,
	pending_days REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (employee_id, year)
);
CREATE TABLE IF NOT EXISTS holiday_request (
	request_id  INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL,
	days        REAL NOT NULL,
	status      TEXT NOT NULL DEFAULT 'PENDING',
	reason      TEXT,
	created_at  TEXT NOT NULL,
	decided_by  INTEGER,
	decided_at  TEXT
);
CREATE TABLE IF NOT EXISTS compensation (
	employee_id    INTEGER NOT NULL,
	base_salary    REAL NOT NULL,
	currency       TEXT NOT NULL DEFAULT 'USD',
	bonus_target   REAL,
	effective_date TEXT NOT NULL,
	PRIMARY KEY (employee_id, effective_date)
);
CREATE TABLE IF NOT EXISTS company_policy (
	policy_id      INTEGER PRIMARY KEY,
	title          TEXT NOT NULL,
	category       TEXT NOT NULL,
	summary        TEXT,
	content        TEXT,
	effective_date TEXT
);
CREATE TABLE IF NOT EXISTS finance_cost_center_access (
	user_email  TEXT NOT NULL,
	cost_center TEXT NOT NULL,
	PRIMARY KEY (user_email, cost_center)
);
CREATE TABLE IF NOT EXISTS company_holiday (
	holiday_date TEXT NOT NULL,
	name         TEXT NOT NULL,
	is_paid      INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (holiday_date, name)
);
CREATE TABLE IF NOT EXISTS announcement (
	announcement_id INTEGER PRIMARY KEY,
	title           TEXT NOT NULL,
	summary         TEXT,
	category        TEXT,
	posted_by       TEXT,
	posted_at       TEXT NOT NULL,
	expires_at      TEXT
);
CREATE TABLE IF NOT EXISTS company_event (
	event_id    INTEGER PRIMARY KEY,
	title       TEXT NOT NULL,
	event_date  TEXT NOT NULL,
	event_time  TEXT,
	location    TEXT,
	description TEXT
);
`

// Store is the SQLite-backed HR repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the HR database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open hr database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent sessions.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init hr schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RequesterContext resolves an authenticated email to an identity.
func (s *Store) RequesterContext(ctx context.Context, email string) (RequesterContext, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT employee_id, email, name, role FROM employee WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))

	var rc RequesterContext
	if err := row.Scan(&rc.EmployeeID, &rc.Email, &rc.Name, &rc.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RequesterContext{}, fmt.Errorf("requester %q: %w", email, ErrNotFound)
		}
		return RequesterContext{}, fmt.Errorf("lookup requester: %w", err)
	}
	return rc, nil
}

// Employee fetches one directory record by id.
func (s *Store) Employee(ctx context.Context, id int64) (Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT employee_id, email, name, COALESCE(title,''), COALESCE(department,''),
		       role, COALESCE(hire_date,''), COALESCE(manager_id,0), COALESCE(cost_center,'')
		FROM employee WHERE employee_id = ?`, id)
	return scanEmployee(row)
}

// SearchEmployees finds employees whose name, email, or title matches query.
func (s *Store) SearchEmployees(ctx context.Context, query string, limit int) ([]Employee, error) {
	if limit <= 0 || limit > 25 {
		limit = 10
	}
	like := "%" + strings.TrimSpace(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, email, name, COALESCE(title,''), COALESCE(department,''),
		       role, COALESCE(hire_date,''), COALESCE(manager_id,0), COALESCE(cost_center,'')
		FROM employee
		WHERE name LIKE ? OR email LIKE ? OR title LIKE ?
		ORDER BY employee_id LIMIT ?`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	defer rows.Close()
	return collectEmployees(rows)
}

// Manager returns the manager of the given employee.
func (s *Store) Manager(ctx context.Context, employeeID int64) (Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.employee_id, m.email, m.name, COALESCE(m.title,''), COALESCE(m.department,''),
		       m.role, COALESCE(m.hire_date,''), COALESCE(m.manager_id,0), COALESCE(m.cost_center,'')
		FROM employee e JOIN employee m ON m.employee_id = e.manager_id
		WHERE e.employee_id = ?`, employeeID)
	return scanEmployee(row)
}

// DirectReports lists employees managed by managerID.
func (s *Store) DirectReports(ctx context.Context, managerID int64) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, email, name, COALESCE(title,''), COALESCE(department,''),
		       role, COALESCE(hire_date,''), COALESCE(manager_id,0), COALESCE(cost_center,'')
		FROM employee WHERE manager_id = ? ORDER BY employee_id`, managerID)
	if err != nil {
		return nil, fmt.Errorf("direct reports: %w", err)
	}
	defer rows.Close()
	return collectEmployees(rows)
}

// IsDirectReport reports whether employeeID reports directly to managerID.
func (s *Store) IsDirectReport(ctx context.Context, managerID, employeeID int64) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM employee WHERE employee_id = ? AND manager_id = ?`,
		employeeID, managerID)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("direct report check: %w", err)
	}
	return true, nil
}

// HasCostCenterAccess reports whether a finance user may read the cost
// center the employee is charged to.
func (s *Store) HasCostCenterAccess(ctx context.Context, email string, employeeID int64) (bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM finance_cost_center_access a
		JOIN employee e ON e.cost_center = a.cost_center
		WHERE a.user_email = ? AND e.employee_id = ?`, email, employeeID)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("cost center access check: %w", err)
	}
	return true, nil
}

// HolidayBalance returns the balance for an employee and year.
func (s *Store) HolidayBalance(ctx context.Context, employeeID int64, year int) (HolidayBalance, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT employee_id, year, total_days, used_days, pending_days
		FROM holiday_balance WHERE employee_id = ? AND year = ?`, employeeID, year)

	var b HolidayBalance
	if err := row.Scan(&b.EmployeeID, &b.Year, &b.TotalDays, &b.UsedDays, &b.PendingDays); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return HolidayBalance{}, fmt.Errorf("holiday balance for %d/%d: %w", employeeID, year, ErrNotFound)
		}
		return HolidayBalance{}, fmt.Errorf("holiday balance: %w", err)
	}
	b.Remaining = b.TotalDays - b.UsedDays - b.PendingDays
	return b, nil
}

// HolidayRequests lists an employee's requests for a year.
func (s *Store) HolidayRequests(ctx context.Context, employeeID int64, year int) ([]HolidayRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, employee_id, start_date, end_date, days, status,
		       COALESCE(reason,''), created_at, COALESCE(decided_by,0), decided_at
		FROM holiday_request
		WHERE employee_id = ? AND substr(start_date, 1, 4) = ?
		ORDER BY start_date`, employeeID, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("holiday requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

// SubmitHolidayRequest files a new pending request and reserves the days.
func (s *Store) SubmitHolidayRequest(ctx context.Context, employeeID int64, startDate, endDate string, days float64, reason string) (HolidayRequest, error) {
	if days <= 0 {
		return HolidayRequest{}, fmt.Errorf("days must be positive, got %v", days)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO holiday_request (employee_id, start_date, end_date, days, status, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		employeeID, startDate, endDate, days, StatusPending, reason, now.Format(time.RFC3339))
	if err != nil {
		return HolidayRequest{}, fmt.Errorf("submit holiday request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return HolidayRequest{}, fmt.Errorf("submit holiday request: %w", err)
	}

	year := 0
	fmt.Sscanf(startDate, "%4d", &year)
	_, err = s.db.ExecContext(ctx, `
		UPDATE holiday_balance SET pending_days = pending_days + ?
		WHERE employee_id = ? AND year = ?`, days, employeeID, year)
	if err != nil {
		return HolidayRequest{}, fmt.Errorf("reserve pending days: %w", err)
	}

	return HolidayRequest{
		ID:         id,
		EmployeeID: employeeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       days,
		Status:     StatusPending,
		Reason:     reason,
		CreatedAt:  now,
	}, nil
}

// CancelHolidayRequest cancels the employee's own request.
func (s *Store) CancelHolidayRequest(ctx context.Context, employeeID, requestID int64) (HolidayRequest, error) {
	req, err := s.holidayRequest(ctx, requestID)
	if err != nil {
		return HolidayRequest{}, err
	}
	if req.EmployeeID != employeeID {
		return HolidayRequest{}, fmt.Errorf("request %d does not belong to employee %d", requestID, employeeID)
	}
	if req.Status == StatusCancelled {
		return req, nil
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, `
		UPDATE holiday_request SET status = ?, decided_by = ?, decided_at = ?
		WHERE request_id = ?`,
		StatusCancelled, employeeID, now.Format(time.RFC3339), requestID); err != nil {
		return HolidayRequest{}, fmt.Errorf("cancel holiday request: %w", err)
	}
	req.Status = StatusCancelled
	req.DecidedBy = employeeID
	req.DecidedAt = &now
	return req, nil
}

// PendingApprovals lists pending requests from the manager's direct reports.
func (s *Store) PendingApprovals(ctx context.Context, managerID int64) ([]HolidayRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.request_id, r.employee_id, r.start_date, r.end_date, r.days, r.status,
		       COALESCE(r.reason,''), r.created_at, COALESCE(r.decided_by,0), r.decided_at
		FROM holiday_request r
		JOIN employee e ON e.employee_id = r.employee_id
		WHERE e.manager_id = ? AND r.status = ?
		ORDER BY r.created_at`, managerID, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("pending approvals: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

// DecideHolidayRequest approves or rejects a pending request from one of
// the manager's direct reports.
func (s *Store) DecideHolidayRequest(ctx context.Context, managerID, requestID int64, approve bool, reason string) (HolidayRequest, error) {
	req, err := s.holidayRequest(ctx, requestID)
	if err != nil {
		return HolidayRequest{}, err
	}
	if req.Status != StatusPending {
		return HolidayRequest{}, fmt.Errorf("request %d is not pending (status %s)", requestID, req.Status)
	}
	isReport, err := s.IsDirectReport(ctx, managerID, req.EmployeeID)
	if err != nil {
		return HolidayRequest{}, err
	}
	if !isReport {
		return HolidayRequest{}, fmt.Errorf("request %d is not from a direct report of %d", requestID, managerID)
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, `
		UPDATE holiday_request SET status = ?, decided_by = ?, decided_at = ?,
		       reason = CASE WHEN ? != '' THEN ? ELSE reason END
		WHERE request_id = ?`,
		status, managerID, now.Format(time.RFC3339), reason, reason, requestID); err != nil {
		return HolidayRequest{}, fmt.Errorf("decide holiday request: %w", err)
	}

	if approve {
		year := 0
		fmt.Sscanf(req.StartDate, "%4d", &year)
		if _, err := s.db.ExecContext(ctx, `
			UPDATE holiday_balance
			SET used_days = used_days + ?, pending_days = MAX(pending_days - ?, 0)
			WHERE employee_id = ? AND year = ?`,
			req.Days, req.Days, req.EmployeeID, year); err != nil {
			return HolidayRequest{}, fmt.Errorf("settle holiday balance: %w", err)
		}
	}

	req.Status = status
	req.DecidedBy = managerID
	req.DecidedAt = &now
	if reason != "" {
		req.Reason = reason
	}
	return req, nil
}

// Compensation returns the employee's current salary record.
func (s *Store) Compensation(ctx context.Context, employeeID int64) (Compensation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT employee_id, base_salary, currency, COALESCE(bonus_target,0), effective_date
		FROM compensation WHERE employee_id = ?
		ORDER BY effective_date DESC LIMIT 1`, employeeID)

	var c Compensation
	if err := row.Scan(&c.EmployeeID, &c.BaseSalary, &c.Currency, &c.BonusTarget, &c.EffectiveDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Compensation{}, fmt.Errorf("compensation for %d: %w", employeeID, ErrNotFound)
		}
		return Compensation{}, fmt.Errorf("compensation: %w", err)
	}
	return c, nil
}

// SalaryHistory returns all salary records, newest first.
func (s *Store) SalaryHistory(ctx context.Context, employeeID int64) ([]Compensation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, base_salary, currency, COALESCE(bonus_target,0), effective_date
		FROM compensation WHERE employee_id = ?
		ORDER BY effective_date DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("salary history: %w", err)
	}
	defer rows.Close()

	var history []Compensation
	for rows.Next() {
		var c Compensation
		if err := rows.Scan(&c.EmployeeID, &c.BaseSalary, &c.Currency, &c.BonusTarget, &c.EffectiveDate); err != nil {
			return nil, fmt.Errorf("salary history: %w", err)
		}
		history = append(history, c)
	}
	return history, rows.Err()
}

// CompanyPolicies lists published policies without their full content.
func (s *Store) CompanyPolicies(ctx context.Context) ([]CompanyPolicy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT policy_id, title, category, COALESCE(summary,''), COALESCE(effective_date,'')
		FROM company_policy ORDER BY policy_id`)
	if err != nil {
		return nil, fmt.Errorf("company policies: %w", err)
	}
	defer rows.Close()

	var policies []CompanyPolicy
	for rows.Next() {
		var p CompanyPolicy
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &p.Summary, &p.EffectiveDate); err != nil {
			return nil, fmt.Errorf("company policies: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// PolicyDetails returns one policy with its full content.
func (s *Store) PolicyDetails(ctx context.Context, policyID int64) (CompanyPolicy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT policy_id, title, category, COALESCE(summary,''), COALESCE(content,''), COALESCE(effective_date,'')
		FROM company_policy WHERE policy_id = ?`, policyID)

	var p CompanyPolicy
	if err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Summary, &p.Content, &p.EffectiveDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CompanyPolicy{}, fmt.Errorf("policy %d: %w", policyID, ErrNotFound)
		}
		return CompanyPolicy{}, fmt.Errorf("policy details: %w", err)
	}
	return p, nil
}

func (s *Store) holidayRequest(ctx context.Context, requestID int64) (HolidayRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT request_id, employee_id, start_date, end_date, days, status,
		       COALESCE(reason,''), created_at, COALESCE(decided_by,0), decided_at
		FROM holiday_request WHERE request_id = ?`, requestID)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return HolidayRequest{}, fmt.Errorf("holiday request %d: %w", requestID, ErrNotFound)
	}
	return req, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Email, &e.Name, &e.Title, &e.Department,
		&e.Role, &e.HireDate, &e.ManagerID, &e.CostCenter)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("scan employee: %w", err)
	}
	return e, nil
}

func collectEmployees(rows *sql.Rows) ([]Employee, error) {
	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (HolidayRequest, error) {
	var (
		req       HolidayRequest
		createdAt string
		decidedAt sql.NullString
	)
	err := row.Scan(&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days,
		&req.Status, &req.Reason, &createdAt, &req.DecidedBy, &decidedAt)
	if err != nil {
		return HolidayRequest{}, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		req.CreatedAt = t
	}
	if decidedAt.Valid {
		if t, err := time.Parse(time.RFC3339, decidedAt.String); err == nil {
			req.DecidedAt = &t
		}
	}
	return req, nil
}

func collectRequests(rows *sql.Rows) ([]HolidayRequest, error) {
	var out []HolidayRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan holiday request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
