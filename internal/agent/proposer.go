package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/acmecorp/hrbot/internal/hr"
	"github.com/acmecorp/hrbot/internal/session"
)

// Proposal is what the model wants to do next: either answer the user or
// run one action.
type Proposal interface{ isProposal() }

// FinalAnswer ends the turn with text for the user.
type FinalAnswer struct {
	Text string
}

func (FinalAnswer) isProposal() {}

// ActionProposal asks for one action to be executed.
type ActionProposal struct {
	Action string
	Params map[string]any
}

func (ActionProposal) isProposal() {}

// Observation is feedback from a previous iteration within the same turn:
// an action result, a policy denial, or a parameter problem.
type Observation struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// State is the input to one proposal: who is asking, what they said, what
// has already happened this turn.
type State struct {
	Requester    hr.RequesterContext
	History      []session.Turn
	UserMessage  string
	Observations []Observation
}

// Proposer produces the next step for a turn.
type Proposer interface {
	Propose(ctx context.Context, st *State) (Proposal, error)
}

// LLMProposer drives a chat model with a JSON action protocol.
type LLMProposer struct {
	model model.ChatModel
}

// NewLLMProposer wraps a chat model.
func NewLLMProposer(m model.ChatModel) *LLMProposer {
	return &LLMProposer{model: m}
}

// wireProposal is the JSON shape the model is instructed to emit.
type wireProposal struct {
	Action      string         `json:"action"`
	Params      map[string]any `json:"params"`
	FinalAnswer string         `json:"final_answer"`
}

// Propose sends the conversation to the model and parses its reply. A reply
// that is not valid protocol JSON is treated as a final answer verbatim,
// never as an action.
func (p *LLMProposer) Propose(ctx context.Context, st *State) (Proposal, error) {
	resp, err := p.model.Generate(ctx, buildMessages(st))
	if err != nil {
		return nil, fmt.Errorf("model generate: %w", err)
	}
	return parseProposal(resp.Content), nil
}

func buildMessages(st *State) []*schema.Message {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt(st.Requester)),
	}
	for _, turn := range st.History {
		switch turn.Role {
		case "user":
			messages = append(messages, schema.UserMessage(turn.Content))
		case "assistant":
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}
	messages = append(messages, schema.UserMessage(st.UserMessage))
	for _, obs := range st.Observations {
		messages = append(messages, schema.UserMessage(
			fmt.Sprintf("[%s] %s", obs.Source, obs.Content)))
	}
	return messages
}

func parseProposal(content string) Proposal {
	raw := extractJSON(content)
	if raw == "" {
		return FinalAnswer{Text: strings.TrimSpace(content)}
	}

	var wire wireProposal
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return FinalAnswer{Text: strings.TrimSpace(content)}
	}
	if wire.Action != "" {
		if wire.Params == nil {
			wire.Params = map[string]any{}
		}
		return ActionProposal{Action: wire.Action, Params: wire.Params}
	}
	if wire.FinalAnswer != "" {
		return FinalAnswer{Text: wire.FinalAnswer}
	}
	return FinalAnswer{Text: strings.TrimSpace(content)}
}

// extractJSON pulls the outermost JSON object from model output, tolerating
// prose or code fences around it.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
