package hr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStore_EmployeeTenure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	info, err := store.EmployeeTenure(ctx, 201)
	if err != nil {
		t.Fatalf("EmployeeTenure error: %v", err)
	}
	if info.HireDate != "2021-09-01" {
		t.Fatalf("expected hire date 2021-09-01, got %q", info.HireDate)
	}
	if info.YearsOfService <= 0 {
		t.Fatalf("expected positive years of service, got %v", info.YearsOfService)
	}

	if _, err := store.EmployeeTenure(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ManagerChain(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chain, err := store.ManagerChain(ctx, 201)
	if err != nil {
		t.Fatalf("ManagerChain error: %v", err)
	}
	if len(chain) != 2 || chain[0].ID != 200 || chain[1].ID != 100 {
		t.Fatalf("expected chain [200 100], got %+v", chain)
	}

	// The CEO has no managers above them.
	chain, err = store.ManagerChain(ctx, 100)
	if err != nil {
		t.Fatalf("ManagerChain error: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("expected empty chain for the CEO, got %+v", chain)
	}
}

func TestStore_TeamOverview(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	team, err := store.TeamOverview(ctx, 200)
	if err != nil {
		t.Fatalf("TeamOverview error: %v", err)
	}
	if team.Manager.ID != 200 {
		t.Fatalf("expected manager 200, got %d", team.Manager.ID)
	}
	if team.TeamSize != 2 || len(team.Members) != 2 {
		t.Fatalf("expected team of 2, got %+v", team)
	}
	if team.Members[0].ID != 201 || team.Members[1].ID != 202 {
		t.Fatalf("expected members [201 202], got %+v", team.Members)
	}

	if _, err := store.TeamOverview(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_DepartmentDirectory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Department match is case insensitive.
	engineers, err := store.DepartmentDirectory(ctx, "engineering")
	if err != nil {
		t.Fatalf("DepartmentDirectory error: %v", err)
	}
	if len(engineers) != 3 {
		t.Fatalf("expected 3 engineers, got %d", len(engineers))
	}
	if engineers[0].Name != "Ana Petrov" {
		t.Fatalf("expected name ordering, got %q first", engineers[0].Name)
	}

	none, err := store.DepartmentDirectory(ctx, "Basket Weaving")
	if err != nil {
		t.Fatalf("DepartmentDirectory error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %+v", none)
	}
}

func TestStore_OrgChart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Zero root means start at the top of the company.
	chart, err := store.OrgChart(ctx, 0, 0)
	if err != nil {
		t.Fatalf("OrgChart error: %v", err)
	}
	if chart.ID != 100 {
		t.Fatalf("expected root 100, got %d", chart.ID)
	}
	if len(chart.Reports) != 4 {
		t.Fatalf("expected 4 direct reports under the CEO, got %d", len(chart.Reports))
	}
	if chart.Reports[0].ID != 200 || len(chart.Reports[0].Reports) != 2 {
		t.Fatalf("expected engineering subtree under 200, got %+v", chart.Reports[0])
	}

	// Depth 1 stops at the root.
	chart, err = store.OrgChart(ctx, 200, 1)
	if err != nil {
		t.Fatalf("OrgChart error: %v", err)
	}
	if chart.ID != 200 || len(chart.Reports) != 0 {
		t.Fatalf("expected bare node for depth 1, got %+v", chart)
	}
}

func TestStore_TeamCalendar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	year := time.Now().Year()

	// Only approved requests from direct reports appear.
	entries, err := store.TeamCalendar(ctx, 200, year, 0)
	if err != nil {
		t.Fatalf("TeamCalendar error: %v", err)
	}
	if len(entries) != 1 || entries[0].EmployeeID != 202 {
		t.Fatalf("expected joel's approved request, got %+v", entries)
	}

	entries, err = store.TeamCalendar(ctx, 200, year, 7)
	if err != nil {
		t.Fatalf("TeamCalendar error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry in july, got %d", len(entries))
	}

	entries, err = store.TeamCalendar(ctx, 200, year, 2)
	if err != nil {
		t.Fatalf("TeamCalendar error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries in february, got %+v", entries)
	}
}

func TestStore_TeamCompensationSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sum, err := store.TeamCompensationSummary(ctx, 200)
	if err != nil {
		t.Fatalf("TeamCompensationSummary error: %v", err)
	}
	if sum.TeamSize != 2 {
		t.Fatalf("expected team of 2, got %d", sum.TeamSize)
	}
	// Only the current salary row counts, not ana's 2022 record.
	if sum.MinSalary != 121000 || sum.MaxSalary != 128000 {
		t.Fatalf("expected min 121000 max 128000, got %+v", sum)
	}
	if sum.TotalSalary != 249000 || sum.AvgSalary != 124500 {
		t.Fatalf("expected total 249000 avg 124500, got %+v", sum)
	}

	if _, err := store.TeamCompensationSummary(ctx, 400); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for employee without reports, got %v", err)
	}
}

func TestStore_CompanyHolidays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	holidays, err := store.CompanyHolidays(ctx, time.Now().Year())
	if err != nil {
		t.Fatalf("CompanyHolidays error: %v", err)
	}
	if len(holidays) != 3 {
		t.Fatalf("expected 3 seeded holidays, got %d", len(holidays))
	}
	if holidays[0].Name != "New Year's Day" || !holidays[0].IsPaid {
		t.Fatalf("unexpected first holiday: %+v", holidays[0])
	}

	holidays, err = store.CompanyHolidays(ctx, 1999)
	if err != nil {
		t.Fatalf("CompanyHolidays error: %v", err)
	}
	if len(holidays) != 0 {
		t.Fatalf("expected no holidays for 1999, got %+v", holidays)
	}
}

func TestStore_Announcements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	announcements, err := store.Announcements(ctx, 0)
	if err != nil {
		t.Fatalf("Announcements error: %v", err)
	}
	// The expired garage notice is excluded.
	if len(announcements) != 2 {
		t.Fatalf("expected 2 current announcements, got %d", len(announcements))
	}
	if announcements[0].ID != 2 {
		t.Fatalf("expected newest announcement first, got %+v", announcements[0])
	}

	announcements, err = store.Announcements(ctx, 1)
	if err != nil {
		t.Fatalf("Announcements error: %v", err)
	}
	if len(announcements) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(announcements))
	}
}

func TestStore_UpcomingEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// The default window covers the picnic but not the offsite.
	events, err := store.UpcomingEvents(ctx, 0)
	if err != nil {
		t.Fatalf("UpcomingEvents error: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Company picnic" {
		t.Fatalf("expected only the picnic within 30 days, got %+v", events)
	}

	events, err = store.UpcomingEvents(ctx, 60)
	if err != nil {
		t.Fatalf("UpcomingEvents error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected both events within 60 days, got %d", len(events))
	}
	if events[0].Date > events[1].Date {
		t.Fatalf("expected date ordering, got %+v", events)
	}
}
