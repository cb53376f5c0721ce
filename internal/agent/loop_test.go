package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/acmecorp/hrbot/internal/dispatch"
	"github.com/acmecorp/hrbot/internal/hr"
	"github.com/acmecorp/hrbot/internal/policy"
	"github.com/acmecorp/hrbot/internal/session"
)

// scriptedProposer replays a fixed list of proposals and records every state
// it was asked to decide on. When the script runs out it repeats the last
// proposal.
type scriptedProposer struct {
	script []Proposal
	calls  int
	states []*State
}

func (p *scriptedProposer) Propose(_ context.Context, st *State) (Proposal, error) {
	p.states = append(p.states, st)
	idx := p.calls
	if idx >= len(p.script) {
		idx = len(p.script) - 1
	}
	p.calls++
	return p.script[idx], nil
}

func newTestOrchestrator(t *testing.T, proposer Proposer) (*Orchestrator, *session.Store) {
	t.Helper()

	store, err := hr.Open(filepath.Join(t.TempDir(), "hr.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("Seed error: %v", err)
	}

	rules, err := policy.ParseRules([]byte(policy.DefaultRulesYAML))
	if err != nil {
		t.Fatalf("ParseRules error: %v", err)
	}
	engine := policy.NewEngine(hr.NewDirectory(store))
	engine.Replace(rules)

	sessions := session.NewStore(50)
	orch := NewOrchestrator(proposer, engine, dispatch.New(store, nil), sessions, store, Options{})
	return orch, sessions
}

func TestChat_FinalAnswerPassthrough(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{
		FinalAnswer{Text: "You have 12 days left this year."},
	}}
	orch, _ := newTestOrchestrator(t, proposer)

	reply, err := orch.Chat(context.Background(), "s1", "ana.petrov@acmecorp.com", "how many days do I have left?")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if reply != "You have 12 days left this year." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if proposer.calls != 1 {
		t.Fatalf("expected 1 proposal, got %d", proposer.calls)
	}
}

func TestChat_UnknownRequester(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &scriptedProposer{script: []Proposal{FinalAnswer{Text: "hi"}}})

	if _, err := orch.Chat(context.Background(), "s1", "ghost@acmecorp.com", "hello"); err == nil {
		t.Fatal("expected error for unknown requester")
	}
}

func TestChat_AllowedActionFeedsResult(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "get_holiday_balance", Params: map[string]any{}},
		FinalAnswer{Text: "Here is your balance."},
	}}
	orch, sessions := newTestOrchestrator(t, proposer)

	reply, err := orch.Chat(context.Background(), "s1", "ana.petrov@acmecorp.com", "my balance please")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if reply != "Here is your balance." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	// The second proposal must have seen the action result.
	if len(proposer.states) != 2 {
		t.Fatalf("expected 2 proposal states, got %d", len(proposer.states))
	}
	obs := proposer.states[1].Observations
	if len(obs) != 1 || obs[0].Source != "result:get_holiday_balance" {
		t.Fatalf("expected balance result observation, got %+v", obs)
	}
	if !strings.Contains(obs[0].Content, "total_days") {
		t.Fatalf("expected payload in observation, got %q", obs[0].Content)
	}

	sess, _ := sessions.Get("s1")
	log := sess.ToolLog()
	if len(log) != 1 || log[0].Action != "get_holiday_balance" || !log[0].Success {
		t.Fatalf("unexpected tool log: %+v", log)
	}
}

func TestChat_ScratchContextTracksSearchAndTarget(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "search_employee", Params: map[string]any{"query": "Joel"}},
		ActionProposal{Action: "get_employee_basic", Params: map[string]any{"employee_id": float64(202)}},
		FinalAnswer{Text: "Joel Tan is a Software Engineer."},
	}}
	orch, sessions := newTestOrchestrator(t, proposer)

	// Marc manages Joel, so both actions are authorized.
	if _, err := orch.Chat(context.Background(), "s1", "marc.lee@acmecorp.com", "who is joel?"); err != nil {
		t.Fatalf("Chat error: %v", err)
	}

	sess, _ := sessions.Get("s1")
	if _, ok := sess.GetContext("last_search"); !ok {
		t.Fatal("expected last_search after a directory search")
	}
	target, ok := sess.GetContext("target_employee")
	if !ok {
		t.Fatal("expected target_employee after a targeted action")
	}
	if target.(int64) != 202 {
		t.Fatalf("expected target 202, got %v", target)
	}
	if _, ok := sess.GetContext("last_result:get_employee_basic"); !ok {
		t.Fatal("expected last_result entry for the executed action")
	}
}

func TestChat_DeniedActionFeedsDenial(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "get_compensation", Params: map[string]any{"employee_id": float64(202)}},
		FinalAnswer{Text: "I can't share that."},
	}}
	orch, sessions := newTestOrchestrator(t, proposer)

	reply, err := orch.Chat(context.Background(), "s1", "ana.petrov@acmecorp.com", "what does joel earn?")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if reply != "I can't share that." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	obs := proposer.states[1].Observations
	if len(obs) != 1 || obs[0].Source != "policy_denied" {
		t.Fatalf("expected policy denial observation, got %+v", obs)
	}

	// A denied action never reaches the dispatcher.
	sess, _ := sessions.Get("s1")
	if log := sess.ToolLog(); len(log) != 0 {
		t.Fatalf("expected empty tool log, got %+v", log)
	}
}

func TestChat_UnknownActionObservation(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "fire_employee", Params: map[string]any{}},
		FinalAnswer{Text: "Sorry, I can't do that."},
	}}
	orch, _ := newTestOrchestrator(t, proposer)

	reply, err := orch.Chat(context.Background(), "s1", "ana.petrov@acmecorp.com", "fire joel")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if reply != "Sorry, I can't do that." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	obs := proposer.states[1].Observations
	if len(obs) != 1 || obs[0].Source != "error:"+dispatch.KindUnknownAction {
		t.Fatalf("expected unknown action observation, got %+v", obs)
	}
}

func TestChat_TurnBudgetExhausted(t *testing.T) {
	// The proposer never produces a final answer.
	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "get_compensation", Params: map[string]any{"employee_id": float64(202)}},
	}}
	orch, _ := newTestOrchestrator(t, proposer)

	reply, err := orch.Chat(context.Background(), "s1", "ana.petrov@acmecorp.com", "keep trying")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if reply != FallbackMessage {
		t.Fatalf("expected fallback message, got %q", reply)
	}
	if proposer.calls != DefaultMaxTurns {
		t.Fatalf("expected %d proposals, got %d", DefaultMaxTurns, proposer.calls)
	}
}

func TestChat_ConfirmationFlow(t *testing.T) {
	year := time.Now().Year() + 1
	start := fmt.Sprintf("%d-03-10", year)
	end := fmt.Sprintf("%d-03-14", year)

	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "submit_holiday_request", Params: map[string]any{
			"start_date": start,
			"end_date":   end,
			"days":       float64(5),
		}},
		FinalAnswer{Text: "Your request is in."},
	}}
	orch, sessions := newTestOrchestrator(t, proposer)
	ctx := context.Background()
	const user = "ana.petrov@acmecorp.com"

	// Turn 1: the proposal suspends on a confirmation request.
	reply, err := orch.Chat(ctx, "s1", user, "book me five days in March")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if !strings.Contains(reply, "5") || !strings.Contains(reply, start) || !strings.Contains(reply, end) {
		t.Fatalf("expected confirmation message with days and dates, got %q", reply)
	}

	sess, _ := sessions.Get("s1")
	if _, ok := sess.Pending(); !ok {
		t.Fatal("expected a pending confirmation after suspension")
	}
	if log := sess.ToolLog(); len(log) != 0 {
		t.Fatal("nothing may execute before confirmation")
	}

	// Turn 2: "yes" executes exactly once and clears the pending state.
	reply, err = orch.Chat(ctx, "s1", user, "yes")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if reply != "Your request is in." {
		t.Fatalf("unexpected reply after confirm: %q", reply)
	}
	if _, ok := sess.Pending(); ok {
		t.Fatal("expected pending state to be cleared after execution")
	}
	log := sess.ToolLog()
	if len(log) != 1 || log[0].Action != "submit_holiday_request" || !log[0].Success {
		t.Fatalf("expected exactly one successful execution, got %+v", log)
	}

	// Turn 3: a further "yes" with nothing pending is inert.
	reply, err = orch.Chat(ctx, "s1", user, "yes")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if !strings.Contains(reply, "nothing waiting") {
		t.Fatalf("expected inert acknowledgement, got %q", reply)
	}
	if log := sess.ToolLog(); len(log) != 1 {
		t.Fatalf("a stray yes must not re-execute, got %+v", log)
	}
}

func TestChat_NonAffirmativeCancels(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "cancel_holiday_request", Params: map[string]any{
			"request_id": float64(1),
		}},
	}}
	orch, sessions := newTestOrchestrator(t, proposer)
	ctx := context.Background()
	const user = "ana.petrov@acmecorp.com"

	reply, err := orch.Chat(ctx, "s1", user, "cancel my request")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if !strings.Contains(reply, "#1") {
		t.Fatalf("expected confirmation message for request 1, got %q", reply)
	}

	// Anything outside the affirmative set cancels, never executes.
	reply, err = orch.Chat(ctx, "s1", user, "actually never mind")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if reply != "Action canceled." {
		t.Fatalf("expected cancel message, got %q", reply)
	}

	sess, _ := sessions.Get("s1")
	if _, ok := sess.Pending(); ok {
		t.Fatal("expected pending state to be cleared on cancel")
	}
	if log := sess.ToolLog(); len(log) != 0 {
		t.Fatalf("a canceled action must not execute, got %+v", log)
	}
}

func TestChat_ConfirmedActionReauthorized(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{
		ActionProposal{Action: "submit_holiday_request", Params: map[string]any{
			"start_date": "2030-03-10",
			"end_date":   "2030-03-12",
			"days":       float64(3),
		}},
	}}
	orch, sessions := newTestOrchestrator(t, proposer)
	ctx := context.Background()
	const user = "ana.petrov@acmecorp.com"

	if _, err := orch.Chat(ctx, "s1", user, "book it"); err != nil {
		t.Fatalf("Chat error: %v", err)
	}

	// Policy changes while the confirmation is pending.
	orch.engine.Replace(nil)

	reply, err := orch.Chat(ctx, "s1", user, "yes")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if !strings.Contains(reply, "no longer permitted") {
		t.Fatalf("expected re-authorization denial, got %q", reply)
	}

	sess, _ := sessions.Get("s1")
	if log := sess.ToolLog(); len(log) != 0 {
		t.Fatalf("revoked action must not execute, got %+v", log)
	}
}

func TestChat_HistoryRecorded(t *testing.T) {
	proposer := &scriptedProposer{script: []Proposal{FinalAnswer{Text: "hello Ana"}}}
	orch, sessions := newTestOrchestrator(t, proposer)

	if _, err := orch.Chat(context.Background(), "s1", "ana.petrov@acmecorp.com", "hi"); err != nil {
		t.Fatalf("Chat error: %v", err)
	}

	sess, _ := sessions.Get("s1")
	history := sess.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "hi" {
		t.Fatalf("unexpected first turn: %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "hello Ana" {
		t.Fatalf("unexpected second turn: %+v", history[1])
	}
}
