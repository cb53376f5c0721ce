// Package agent runs the orchestration loop between the user, the proposing
// model, the policy engine, and the action dispatcher.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/acmecorp/hrbot/internal/actions"
	"github.com/acmecorp/hrbot/internal/audit"
	"github.com/acmecorp/hrbot/internal/bus"
	"github.com/acmecorp/hrbot/internal/confirm"
	"github.com/acmecorp/hrbot/internal/dispatch"
	"github.com/acmecorp/hrbot/internal/hr"
	"github.com/acmecorp/hrbot/internal/policy"
	"github.com/acmecorp/hrbot/internal/session"
)

// DefaultMaxTurns bounds proposal iterations within one user turn.
const DefaultMaxTurns = 5

// FallbackMessage ends a turn that exhausted its iteration budget without a
// final answer.
const FallbackMessage = "I seem to be having trouble resolving your request. Please try rephrasing or contact support."

const cancelMessage = "Action canceled."

// Orchestrator coordinates one conversation turn end to end: it asks the
// proposer what to do, authorizes every proposed action, suspends sensitive
// actions on a confirmation, and executes what passes.
type Orchestrator struct {
	proposer   Proposer
	engine     *policy.Engine
	dispatcher *dispatch.Dispatcher
	sessions   *session.Store
	store      *hr.Store
	auditor    *audit.Writer
	maxTurns   int
	logger     *slog.Logger
}

// Options configures an Orchestrator.
type Options struct {
	MaxTurns int
	Auditor  *audit.Writer
	Logger   *slog.Logger
}

// NewOrchestrator wires the loop together.
func NewOrchestrator(p Proposer, engine *policy.Engine, d *dispatch.Dispatcher, sessions *session.Store, store *hr.Store, opts Options) *Orchestrator {
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		proposer:   p,
		engine:     engine,
		dispatcher: d,
		sessions:   sessions,
		store:      store,
		auditor:    opts.Auditor,
		maxTurns:   maxTurns,
		logger:     logger,
	}
}

// Chat processes one user message for a session and returns the reply.
// Turns within a session are serialized; concurrent calls for the same
// session queue behind each other.
func (o *Orchestrator) Chat(ctx context.Context, sessionID, userEmail, message string) (string, error) {
	requester, err := o.store.RequesterContext(ctx, userEmail)
	if err != nil {
		return "", fmt.Errorf("resolve requester: %w", err)
	}

	sess := o.sessions.GetOrCreate(sessionID, requester.Email)
	sess.BeginTurn()
	defer sess.EndTurn()

	reply := o.runTurn(ctx, sess, requester, message)

	sess.AddTurn("user", message)
	sess.AddTurn("assistant", reply)
	return reply, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, sess *session.Session, requester hr.RequesterContext, message string) string {
	requestID := bus.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = bus.NewRequestID()
	}
	o.logger.Info("turn started",
		"request_id", requestID, "session", sess.ID,
		"requester", requester.EmployeeID, "role", requester.Role)

	var observations []Observation

	// A pending confirmation consumes this message before the model sees it.
	if pending, ok := sess.Pending(); ok {
		verdict := confirm.ParseReply(message)
		o.audit(audit.Event{
			Type: audit.TypeConfirmation, RequestID: requestID, Session: sess.ID,
			Requester: requester.Email, Action: pending.Action,
			Result: verdictString(verdict),
		})
		if verdict != confirm.VerdictConfirm {
			sess.ClearPending()
			o.logger.Info("pending action canceled",
				"request_id", requestID, "session", sess.ID, "action", pending.Action)
			return cancelMessage
		}

		taken, ok := sess.TakePending(pending.Token)
		if !ok {
			// Another turn already consumed or replaced it.
			return cancelMessage
		}
		obs, final := o.executeConfirmed(ctx, sess, requester, taken, requestID)
		if final != "" {
			return final
		}
		// Let the model report the outcome in its own words.
		observations = append(observations, obs)
		message = fmt.Sprintf("The user confirmed the %s action.", taken.Action)
	} else if confirm.IsAffirmative(message) {
		// A stray "yes" with nothing pending must never execute anything.
		return "There's nothing waiting for your confirmation right now. What would you like to do?"
	}

	for turn := 0; turn < o.maxTurns; turn++ {
		st := &State{
			Requester:    requester,
			History:      sess.History(),
			UserMessage:  message,
			Observations: observations,
		}

		proposal, err := o.proposer.Propose(ctx, st)
		if err != nil {
			o.logger.Error("proposal failed",
				"request_id", requestID, "session", sess.ID, "error", err)
			return FallbackMessage
		}

		switch p := proposal.(type) {
		case FinalAnswer:
			return p.Text

		case ActionProposal:
			obs, final := o.handleProposal(ctx, sess, requester, p, requestID)
			if final != "" {
				return final
			}
			observations = append(observations, obs)

		default:
			return FallbackMessage
		}
	}

	o.logger.Warn("turn budget exhausted",
		"request_id", requestID, "session", sess.ID, "max_turns", o.maxTurns)
	return FallbackMessage
}

// handleProposal decodes, authorizes, and executes one proposed action. A
// non-empty final return ends the turn immediately (confirmation suspension);
// otherwise the observation feeds the next iteration.
func (o *Orchestrator) handleProposal(ctx context.Context, sess *session.Session, requester hr.RequesterContext, p ActionProposal, requestID string) (Observation, string) {
	act, err := actions.Decode(p.Action, p.Params)
	if err != nil {
		result := dispatch.Failure(err)
		o.logger.Warn("proposal rejected",
			"request_id", requestID, "session", sess.ID,
			"action", p.Action, "kind", result.Kind, "error", err)
		return Observation{
			Source:  "error:" + result.Kind,
			Content: result.Message,
		}, ""
	}

	allowed, rule, matched := o.engine.Explain(ctx, policy.Context{
		RequesterID:    requester.EmployeeID,
		RequesterEmail: requester.Email,
		RequesterRole:  policy.Role(requester.Role),
		Action:         act.Name(),
		TargetID:       act.Target(),
	})
	ruleName := "default_deny"
	if matched {
		ruleName = rule.Name
	}
	o.audit(audit.Event{
		Type: audit.TypePolicyDecision, RequestID: requestID, Session: sess.ID,
		Requester: requester.Email, Action: act.Name(),
		Result: effectString(allowed), Detail: ruleName,
	})
	if !allowed {
		o.logger.Info("action denied",
			"request_id", requestID, "session", sess.ID,
			"action", act.Name(), "target", act.Target(), "rule", ruleName)
		return Observation{
			Source: "policy_denied",
			Content: fmt.Sprintf(
				"Action %s on this target was denied by company policy. Do not retry it; answer with what you may share.",
				act.Name()),
		}, ""
	}

	if confirm.RequiresConfirmation(act.Name()) {
		pending := sess.SetPending(act.Name(), p.Params, confirm.Message(act.Name(), p.Params))
		o.logger.Info("action suspended for confirmation",
			"request_id", requestID, "session", sess.ID, "action", act.Name())
		return Observation{}, pending.Message
	}

	return o.execute(ctx, sess, requester, act, requestID), ""
}

// executeConfirmed re-authorizes and runs an action the user just confirmed.
// Policy may have changed while the confirmation was pending.
func (o *Orchestrator) executeConfirmed(ctx context.Context, sess *session.Session, requester hr.RequesterContext, pending session.Pending, requestID string) (Observation, string) {
	act, err := actions.Decode(pending.Action, pending.Params)
	if err != nil {
		result := dispatch.Failure(err)
		return Observation{Source: "error:" + result.Kind, Content: result.Message}, ""
	}

	allowed, rule, matched := o.engine.Explain(ctx, policy.Context{
		RequesterID:    requester.EmployeeID,
		RequesterEmail: requester.Email,
		RequesterRole:  policy.Role(requester.Role),
		Action:         act.Name(),
		TargetID:       act.Target(),
	})
	ruleName := "default_deny"
	if matched {
		ruleName = rule.Name
	}
	o.audit(audit.Event{
		Type: audit.TypePolicyDecision, RequestID: requestID, Session: sess.ID,
		Requester: requester.Email, Action: act.Name(),
		Result: effectString(allowed), Detail: ruleName,
	})
	if !allowed {
		o.logger.Warn("confirmed action no longer authorized",
			"request_id", requestID, "session", sess.ID, "action", act.Name(), "rule", ruleName)
		return Observation{}, "This action is no longer permitted by company policy."
	}

	return o.execute(ctx, sess, requester, act, requestID), ""
}

func (o *Orchestrator) execute(ctx context.Context, sess *session.Session, requester hr.RequesterContext, act actions.Action, requestID string) Observation {
	start := time.Now()
	result := o.dispatcher.Execute(ctx, requester, act)
	sess.LogToolCall(act.Name(), result.OK)

	detail := result.Message
	if result.OK {
		detail = ""
	}
	o.audit(audit.Event{
		Type: audit.TypeActionResult, RequestID: requestID, Session: sess.ID,
		Requester: requester.Email, Action: act.Name(),
		Result: okString(result.OK), Detail: detail,
	})
	o.logger.Info("action executed",
		"request_id", requestID, "session", sess.ID,
		"action", act.Name(), "success", result.OK,
		"duration_ms", time.Since(start).Milliseconds())

	if !result.OK {
		return Observation{Source: "error:" + result.Kind, Content: result.Message}
	}

	payload, err := json.Marshal(result.Payload)
	if err != nil {
		return Observation{
			Source:  "error:" + dispatch.KindToolExecution,
			Content: fmt.Sprintf("encode %s result: %v", act.Name(), err),
		}
	}

	// Scratch context lets follow-up turns resolve references like "her
	// manager" without a fresh search.
	sess.UpdateContext("last_result:"+act.Name(), result.Payload)
	if act.Name() == actions.SearchEmployee {
		sess.UpdateContext("last_search", result.Payload)
	}
	if target := act.Target(); target != 0 {
		sess.UpdateContext("target_employee", target)
	}

	return Observation{
		Source:  "result:" + act.Name(),
		Content: string(payload),
	}
}

func (o *Orchestrator) audit(event audit.Event) {
	if o.auditor == nil {
		return
	}
	event.Time = time.Now().UTC()
	if err := o.auditor.Append(event); err != nil {
		o.logger.Warn("audit append failed", "type", event.Type, "error", err)
	}
}

func verdictString(v confirm.Verdict) string {
	if v == confirm.VerdictConfirm {
		return "confirmed"
	}
	return "canceled"
}

func effectString(allowed bool) string {
	if allowed {
		return "allow"
	}
	return "deny"
}

func okString(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
