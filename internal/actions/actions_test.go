package actions

import (
	"errors"
	"testing"
)

func TestDecode_UnknownAction(t *testing.T) {
	_, err := Decode("drop_all_tables", map[string]any{})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestDecode_SubmitHolidayRequest(t *testing.T) {
	// Params arrive as float64 because they come out of JSON.
	act, err := Decode("submit_holiday_request", map[string]any{
		"start_date": "2026-03-10",
		"end_date":   "2026-03-14",
		"days":       float64(5),
		"reason":     "spring break",
	})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	params, ok := act.(*SubmitHolidayRequestParams)
	if !ok {
		t.Fatalf("expected SubmitHolidayRequestParams, got %T", act)
	}
	if params.Days != 5 {
		t.Fatalf("expected 5 days, got %v", params.Days)
	}
	if act.Name() != "submit_holiday_request" {
		t.Fatalf("expected submit_holiday_request, got %q", act.Name())
	}
	if act.Target() != 0 {
		t.Fatalf("expected no target, got %d", act.Target())
	}
}

func TestDecode_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		action string
		params map[string]any
	}{
		{"missing dates", "submit_holiday_request", map[string]any{"days": float64(3)}},
		{"bad date format", "submit_holiday_request", map[string]any{
			"start_date": "10/03/2026", "end_date": "2026-03-14", "days": float64(3),
		}},
		{"end before start", "submit_holiday_request", map[string]any{
			"start_date": "2026-03-14", "end_date": "2026-03-10", "days": float64(3),
		}},
		{"zero days", "submit_holiday_request", map[string]any{
			"start_date": "2026-03-10", "end_date": "2026-03-14", "days": float64(0),
		}},
		{"missing request id", "cancel_holiday_request", map[string]any{}},
		{"negative employee id", "get_employee_basic", map[string]any{"employee_id": float64(-1)}},
		{"short query", "search_employee", map[string]any{"query": "a"}},
		{"missing policy id", "get_policy_details", map[string]any{}},
		{"missing department", "get_department_directory", map[string]any{}},
		{"org chart too deep", "get_org_chart", map[string]any{"max_depth": float64(9)}},
		{"bad calendar month", "get_team_calendar", map[string]any{"month": float64(13)}},
		{"announcement limit too high", "get_announcements", map[string]any{"limit": float64(100)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.action, tc.params)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Action != tc.action {
				t.Fatalf("expected action %q in error, got %q", tc.action, ve.Action)
			}
		})
	}
}

func TestDecode_TargetExtraction(t *testing.T) {
	act, err := Decode("get_compensation", map[string]any{"employee_id": float64(202)})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if act.Target() != 202 {
		t.Fatalf("expected target 202, got %d", act.Target())
	}

	// Omitted employee_id means self scoped.
	act, err = Decode("get_compensation", map[string]any{})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if act.Target() != 0 {
		t.Fatalf("expected zero target for self-scoped call, got %d", act.Target())
	}
}

func TestDecode_CompanyInfoDefaults(t *testing.T) {
	// Year, limit, and window parameters may all be omitted.
	for _, name := range []string{"get_company_holidays", "get_announcements", "get_upcoming_events", "get_team_overview", "get_org_chart"} {
		act, err := Decode(name, map[string]any{})
		if err != nil {
			t.Fatalf("Decode %s error: %v", name, err)
		}
		if act.Target() != 0 {
			t.Fatalf("expected no employee target for %s, got %d", name, act.Target())
		}
	}

	act, err := Decode("get_employee_tenure", map[string]any{"employee_id": float64(202)})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if act.Target() != 202 {
		t.Fatalf("expected target 202, got %d", act.Target())
	}
}

func TestDecode_IgnoresExtraParams(t *testing.T) {
	act, err := Decode("get_holiday_balance", map[string]any{
		"employee_id": float64(201),
		"verbose":     true,
	})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if act.Target() != 201 {
		t.Fatalf("expected target 201, got %d", act.Target())
	}
}

func TestNamesAndKnown(t *testing.T) {
	names := Names()
	if len(names) != 25 {
		t.Fatalf("expected 25 registered actions, got %d", len(names))
	}
	for _, name := range names {
		if !Known(name) {
			t.Fatalf("expected %s to be known", name)
		}
	}
	if Known("rm_rf") {
		t.Fatal("expected rm_rf to be unknown")
	}
}
