package hr

import (
	"context"
	"fmt"
	"time"
)

// Seed populates an empty database with a small demo company. It is
// idempotent: a database that already has employees is left alone.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employee`).Scan(&count); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if count > 0 {
		return nil
	}

	year := time.Now().Year()

	employees := []Employee{
		{ID: 100, Email: "dana.ceo@acmecorp.com", Name: "Dana Whitfield", Title: "Chief Executive Officer", Department: "Executive", Role: "MANAGER", HireDate: "2015-03-02", CostCenter: "CC-EXEC"},
		{ID: 200, Email: "marc.lee@acmecorp.com", Name: "Marc Lee", Title: "Engineering Manager", Department: "Engineering", Role: "MANAGER", HireDate: "2018-06-11", ManagerID: 100, CostCenter: "CC-ENG"},
		{ID: 201, Email: "ana.petrov@acmecorp.com", Name: "Ana Petrov", Title: "Software Engineer", Department: "Engineering", Role: "EMPLOYEE", HireDate: "2021-09-01", ManagerID: 200, CostCenter: "CC-ENG"},
		{ID: 202, Email: "joel.tan@acmecorp.com", Name: "Joel Tan", Title: "Software Engineer", Department: "Engineering", Role: "EMPLOYEE", HireDate: "2022-02-14", ManagerID: 200, CostCenter: "CC-ENG"},
		{ID: 203, Email: "rita.gomez@acmecorp.com", Name: "Rita Gomez", Title: "Product Designer", Department: "Design", Role: "EMPLOYEE", HireDate: "2020-04-20", ManagerID: 100, CostCenter: "CC-DESIGN"},
		{ID: 300, Email: "sam.okafor@acmecorp.com", Name: "Sam Okafor", Title: "HR Business Partner", Department: "People", Role: "HR", HireDate: "2017-01-09", ManagerID: 100, CostCenter: "CC-PEOPLE"},
		{ID: 400, Email: "lin.zhao@acmecorp.com", Name: "Lin Zhao", Title: "Finance Analyst", Department: "Finance", Role: "FINANCE", HireDate: "2019-11-25", ManagerID: 100, CostCenter: "CC-FIN"},
	}
	for _, e := range employees {
		var managerID any
		if e.ManagerID != 0 {
			managerID = e.ManagerID
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO employee (employee_id, email, name, title, department, role, hire_date, manager_id, cost_center)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Email, e.Name, e.Title, e.Department, e.Role, e.HireDate, managerID, e.CostCenter); err != nil {
			return fmt.Errorf("seed employee %d: %w", e.ID, err)
		}
	}

	balances := []HolidayBalance{
		{EmployeeID: 100, Year: year, TotalDays: 30, UsedDays: 8},
		{EmployeeID: 200, Year: year, TotalDays: 28, UsedDays: 5},
		{EmployeeID: 201, Year: year, TotalDays: 25, UsedDays: 10, PendingDays: 3},
		{EmployeeID: 202, Year: year, TotalDays: 25, UsedDays: 2},
		{EmployeeID: 203, Year: year, TotalDays: 25, UsedDays: 12},
		{EmployeeID: 300, Year: year, TotalDays: 27, UsedDays: 6},
		{EmployeeID: 400, Year: year, TotalDays: 26, UsedDays: 4},
	}
	for _, b := range balances {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO holiday_balance (employee_id, year, total_days, used_days, pending_days)
			VALUES (?, ?, ?, ?, ?)`,
			b.EmployeeID, b.Year, b.TotalDays, b.UsedDays, b.PendingDays); err != nil {
			return fmt.Errorf("seed balance %d: %w", b.EmployeeID, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	requests := []struct {
		employeeID int64
		start, end string
		days       float64
		status     string
		reason     string
	}{
		{201, fmt.Sprintf("%d-12-22", year), fmt.Sprintf("%d-12-24", year), 3, StatusPending, "Winter break"},
		{202, fmt.Sprintf("%d-07-01", year), fmt.Sprintf("%d-07-02", year), 2, StatusApproved, "Long weekend"},
		{203, fmt.Sprintf("%d-05-05", year), fmt.Sprintf("%d-05-09", year), 5, StatusApproved, ""},
	}
	for _, r := range requests {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO holiday_request (employee_id, start_date, end_date, days, status, reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.employeeID, r.start, r.end, r.days, r.status, r.reason, now); err != nil {
			return fmt.Errorf("seed request for %d: %w", r.employeeID, err)
		}
	}

	compensation := []Compensation{
		{EmployeeID: 100, BaseSalary: 310000, Currency: "USD", BonusTarget: 0.5, EffectiveDate: "2024-01-01"},
		{EmployeeID: 200, BaseSalary: 185000, Currency: "USD", BonusTarget: 0.2, EffectiveDate: "2024-01-01"},
		{EmployeeID: 201, BaseSalary: 128000, Currency: "USD", BonusTarget: 0.1, EffectiveDate: "2024-01-01"},
		{EmployeeID: 201, BaseSalary: 119000, Currency: "USD", BonusTarget: 0.1, EffectiveDate: "2022-01-01"},
		{EmployeeID: 202, BaseSalary: 121000, Currency: "USD", BonusTarget: 0.1, EffectiveDate: "2024-01-01"},
		{EmployeeID: 203, BaseSalary: 115000, Currency: "USD", BonusTarget: 0.1, EffectiveDate: "2024-01-01"},
		{EmployeeID: 300, BaseSalary: 132000, Currency: "USD", BonusTarget: 0.12, EffectiveDate: "2024-01-01"},
		{EmployeeID: 400, BaseSalary: 125000, Currency: "USD", BonusTarget: 0.12, EffectiveDate: "2024-01-01"},
	}
	for _, c := range compensation {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO compensation (employee_id, base_salary, currency, bonus_target, effective_date)
			VALUES (?, ?, ?, ?, ?)`,
			c.EmployeeID, c.BaseSalary, c.Currency, c.BonusTarget, c.EffectiveDate); err != nil {
			return fmt.Errorf("seed compensation %d: %w", c.EmployeeID, err)
		}
	}

	policies := []CompanyPolicy{
		{ID: 1, Title: "Paid Time Off", Category: "time-off", Summary: "Accrual, carryover, and approval rules for PTO.", Content: "Employees accrue PTO monthly. Unused days up to 5 carry over to the next year. Requests of 5 or more consecutive days need two weeks notice.", EffectiveDate: "2023-01-01"},
		{ID: 2, Title: "Remote Work", Category: "workplace", Summary: "Expectations for remote and hybrid employees.", Content: "Employees may work remotely up to three days per week with manager agreement. Core collaboration hours are 10:00 to 15:00 local time.", EffectiveDate: "2023-06-01"},
		{ID: 3, Title: "Expense Reimbursement", Category: "finance", Summary: "What can be expensed and how to file.", Content: "Submit expenses within 30 days with receipts. Travel must be booked through the company portal. Meals are capped at 60 USD per day.", EffectiveDate: "2024-02-01"},
		{ID: 4, Title: "Parental Leave", Category: "time-off", Summary: "Leave available to new parents.", Content: "Primary caregivers receive 16 weeks of paid leave, secondary caregivers 6 weeks, usable within the first year.", EffectiveDate: "2022-09-01"},
	}
	for _, p := range policies {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO company_policy (policy_id, title, category, summary, content, effective_date)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Category, p.Summary, p.Content, p.EffectiveDate); err != nil {
			return fmt.Errorf("seed policy %d: %w", p.ID, err)
		}
	}

	access := []struct {
		email, costCenter string
	}{
		{"lin.zhao@acmecorp.com", "CC-ENG"},
		{"lin.zhao@acmecorp.com", "CC-FIN"},
	}
	for _, a := range access {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO finance_cost_center_access (user_email, cost_center)
			VALUES (?, ?)`, a.email, a.costCenter); err != nil {
			return fmt.Errorf("seed cost center access: %w", err)
		}
	}

	holidays := []CompanyHoliday{
		{Date: fmt.Sprintf("%d-01-01", year), Name: "New Year's Day", IsPaid: true},
		{Date: fmt.Sprintf("%d-07-04", year), Name: "Independence Day", IsPaid: true},
		{Date: fmt.Sprintf("%d-12-25", year), Name: "Christmas Day", IsPaid: true},
	}
	for _, h := range holidays {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO company_holiday (holiday_date, name, is_paid)
			VALUES (?, ?, ?)`, h.Date, h.Name, h.IsPaid); err != nil {
			return fmt.Errorf("seed holiday %s: %w", h.Name, err)
		}
	}

	seedTime := time.Now().UTC()
	announcements := []struct {
		id                       int64
		title, summary, category string
		postedBy, postedAt       string
		expiresAt                any
	}{
		{1, "Benefits enrollment opens Monday", "Annual benefits enrollment runs for two weeks. Review your selections in the portal.", "benefits",
			"sam.okafor@acmecorp.com", seedTime.Add(-48 * time.Hour).Format(time.RFC3339), nil},
		{2, "All-hands recording available", "The quarterly all-hands recording and slides are on the intranet.", "company",
			"dana.ceo@acmecorp.com", seedTime.Add(-24 * time.Hour).Format(time.RFC3339), nil},
		{3, "Parking garage closed last week", "The garage was closed for resurfacing.", "facilities",
			"sam.okafor@acmecorp.com", seedTime.Add(-240 * time.Hour).Format(time.RFC3339), seedTime.Add(-168 * time.Hour).Format(time.RFC3339)},
	}
	for _, a := range announcements {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO announcement (announcement_id, title, summary, category, posted_by, posted_at, expires_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.id, a.title, a.summary, a.category, a.postedBy, a.postedAt, a.expiresAt); err != nil {
			return fmt.Errorf("seed announcement %d: %w", a.id, err)
		}
	}

	events := []CompanyEvent{
		{ID: 1, Title: "Company picnic", Date: seedTime.AddDate(0, 0, 10).Format("2006-01-02"), Time: "12:00", Location: "Riverside Park", Description: "Food and games for employees and families."},
		{ID: 2, Title: "Engineering offsite", Date: seedTime.AddDate(0, 0, 45).Format("2006-01-02"), Time: "09:00", Location: "Lakeview Center", Description: "Two days of planning for the next half."},
	}
	for _, e := range events {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO company_event (event_id, title, event_date, event_time, location, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Date, e.Time, e.Location, e.Description); err != nil {
			return fmt.Errorf("seed event %d: %w", e.ID, err)
		}
	}

	return nil
}
