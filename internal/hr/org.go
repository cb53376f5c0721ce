package hr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	managerChainMaxDepth = 6
	orgChartDefaultDepth = 3
)

// EmployeeTenure returns how long an employee has been with the company.
func (s *Store) EmployeeTenure(ctx context.Context, employeeID int64) (TenureInfo, error) {
	e, err := s.Employee(ctx, employeeID)
	if err != nil {
		return TenureInfo{}, fmt.Errorf("tenure for %d: %w", employeeID, err)
	}

	info := TenureInfo{EmployeeID: e.ID, Name: e.Name, HireDate: e.HireDate}
	if hired, err := time.Parse("2006-01-02", e.HireDate); err == nil {
		years := time.Since(hired).Hours() / 24 / 365.25
		info.YearsOfService = math.Round(years*10) / 10
	}
	return info, nil
}

// ManagerChain walks the reporting line from an employee up to the top,
// bounded so a cyclic manager_id can never loop forever.
func (s *Store) ManagerChain(ctx context.Context, employeeID int64) ([]Employee, error) {
	var chain []Employee
	current := employeeID
	for i := 0; i < managerChainMaxDepth; i++ {
		mgr, err := s.Manager(ctx, current)
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("manager chain for %d: %w", employeeID, err)
		}
		chain = append(chain, mgr)
		current = mgr.ID
	}
	return chain, nil
}

// TeamOverview summarizes a manager's direct reports.
func (s *Store) TeamOverview(ctx context.Context, managerID int64) (TeamOverview, error) {
	mgr, err := s.Employee(ctx, managerID)
	if err != nil {
		return TeamOverview{}, fmt.Errorf("team overview for %d: %w", managerID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, email, name, COALESCE(title,''), COALESCE(department,''),
		       role, COALESCE(hire_date,''), COALESCE(manager_id,0), COALESCE(cost_center,'')
		FROM employee WHERE manager_id = ? ORDER BY department, name`, managerID)
	if err != nil {
		return TeamOverview{}, fmt.Errorf("team overview: %w", err)
	}
	defer rows.Close()

	members, err := collectEmployees(rows)
	if err != nil {
		return TeamOverview{}, err
	}
	return TeamOverview{Manager: mgr, TeamSize: len(members), Members: members}, nil
}

// DepartmentDirectory lists everyone in a department.
func (s *Store) DepartmentDirectory(ctx context.Context, department string) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, email, name, COALESCE(title,''), COALESCE(department,''),
		       role, COALESCE(hire_date,''), COALESCE(manager_id,0), COALESCE(cost_center,'')
		FROM employee WHERE department = ? COLLATE NOCASE ORDER BY name`,
		strings.TrimSpace(department))
	if err != nil {
		return nil, fmt.Errorf("department directory: %w", err)
	}
	defer rows.Close()
	return collectEmployees(rows)
}

// OrgChart builds the reporting tree below rootID, or below the top of the
// company when rootID is zero. maxDepth zero means the default depth.
func (s *Store) OrgChart(ctx context.Context, rootID int64, maxDepth int) (OrgNode, error) {
	if maxDepth <= 0 {
		maxDepth = orgChartDefaultDepth
	}
	if rootID == 0 {
		row := s.db.QueryRowContext(ctx,
			`SELECT employee_id FROM employee WHERE manager_id IS NULL ORDER BY employee_id LIMIT 1`)
		if err := row.Scan(&rootID); err != nil {
			return OrgNode{}, fmt.Errorf("org chart root: %w", ErrNotFound)
		}
	}
	return s.orgSubtree(ctx, rootID, 1, maxDepth)
}

func (s *Store) orgSubtree(ctx context.Context, id int64, depth, maxDepth int) (OrgNode, error) {
	e, err := s.Employee(ctx, id)
	if err != nil {
		return OrgNode{}, fmt.Errorf("org chart node %d: %w", id, err)
	}
	node := OrgNode{ID: e.ID, Name: e.Name, Title: e.Title, Department: e.Department}
	if depth >= maxDepth {
		return node, nil
	}

	reports, err := s.DirectReports(ctx, id)
	if err != nil {
		return OrgNode{}, err
	}
	for _, r := range reports {
		child, err := s.orgSubtree(ctx, r.ID, depth+1, maxDepth)
		if err != nil {
			return OrgNode{}, err
		}
		node.Reports = append(node.Reports, child)
	}
	return node, nil
}

// TeamCalendar lists approved time off for a manager's direct reports in a
// year, optionally narrowed to one month.
func (s *Store) TeamCalendar(ctx context.Context, managerID int64, year, month int) ([]HolidayRequest, error) {
	query := `
		SELECT r.request_id, r.employee_id, r.start_date, r.end_date, r.days, r.status,
		       COALESCE(r.reason,''), r.created_at, COALESCE(r.decided_by,0), r.decided_at
		FROM holiday_request r
		JOIN employee e ON e.employee_id = r.employee_id
		WHERE e.manager_id = ? AND r.status = ? AND substr(r.start_date, 1, 4) = ?`
	args := []any{managerID, StatusApproved, fmt.Sprintf("%04d", year)}
	if month > 0 {
		query += ` AND substr(r.start_date, 6, 2) = ?`
		args = append(args, fmt.Sprintf("%02d", month))
	}
	query += ` ORDER BY r.start_date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("team calendar: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

// TeamCompensationSummary aggregates the current salary of each direct
// report. Individual records stay out of the result.
func (s *Store) TeamCompensationSummary(ctx context.Context, managerID int64) (TeamCompensationSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.base_salary, c.currency
		FROM employee e
		JOIN compensation c ON c.employee_id = e.employee_id
		WHERE e.manager_id = ?
		  AND c.effective_date = (
		      SELECT MAX(effective_date) FROM compensation WHERE employee_id = e.employee_id)`,
		managerID)
	if err != nil {
		return TeamCompensationSummary{}, fmt.Errorf("team compensation: %w", err)
	}
	defer rows.Close()

	sum := TeamCompensationSummary{ManagerID: managerID}
	for rows.Next() {
		var salary float64
		var currency string
		if err := rows.Scan(&salary, &currency); err != nil {
			return TeamCompensationSummary{}, fmt.Errorf("team compensation: %w", err)
		}
		if sum.TeamSize == 0 || salary < sum.MinSalary {
			sum.MinSalary = salary
		}
		if salary > sum.MaxSalary {
			sum.MaxSalary = salary
		}
		sum.TotalSalary += salary
		sum.Currency = currency
		sum.TeamSize++
	}
	if err := rows.Err(); err != nil {
		return TeamCompensationSummary{}, fmt.Errorf("team compensation: %w", err)
	}
	if sum.TeamSize == 0 {
		return TeamCompensationSummary{}, fmt.Errorf("team compensation for manager %d: %w", managerID, ErrNotFound)
	}
	sum.AvgSalary = sum.TotalSalary / float64(sum.TeamSize)
	return sum, nil
}
