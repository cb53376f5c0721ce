package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is a single exchange entry in the conversation history.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Pending is a sensitive action suspended until the user confirms it.
// The token is single-use: taking it clears the slot.
type Pending struct {
	Action    string         `json:"action"`
	Params    map[string]any `json:"params"`
	Message   string         `json:"message"`
	Token     string         `json:"token"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToolCall is an audit record of one executed action within the session.
type ToolCall struct {
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds per-conversation state: bounded turn history, scratch
// context, the pending confirmation slot, and the tool-call log.
type Session struct {
	ID    string
	Owner string // employee email

	maxHistory int

	mu      sync.RWMutex
	turns   []Turn
	context map[string]any
	pending *Pending
	toolLog []ToolCall

	// turnMu serializes whole turns: the orchestration loop assumes
	// exclusive access to the session while a turn is in flight.
	turnMu sync.Mutex
}

// BeginTurn takes the per-session turn lock. Turns for the same session run
// strictly in arrival order; sessions are independent.
func (s *Session) BeginTurn() { s.turnMu.Lock() }

// EndTurn releases the turn lock.
func (s *Session) EndTurn() { s.turnMu.Unlock() }

// AddTurn appends to the history, evicting the oldest turn past the bound.
func (s *Session) AddTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if s.maxHistory > 0 && len(s.turns) > s.maxHistory {
		s.turns = s.turns[len(s.turns)-s.maxHistory:]
	}
}

// History returns a copy of the retained turns.
func (s *Session) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// SetPending installs a pending confirmation, replacing any existing one
// (last proposal wins). It returns the freshly issued token.
func (s *Session) SetPending(action string, params map[string]any, message string) Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Pending{
		Action:    action,
		Params:    params,
		Message:   message,
		Token:     uuid.NewString(),
		CreatedAt: time.Now(),
	}
	s.pending = &p
	return p
}

// Pending returns the current pending confirmation, if any.
func (s *Session) Pending() (Pending, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}

// TakePending consumes the pending confirmation if token matches. The slot
// is cleared before the caller dispatches, so a duplicate confirm finds
// nothing to re-execute.
func (s *Session) TakePending(token string) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.Token != token {
		return Pending{}, false
	}
	p := *s.pending
	s.pending = nil
	return p, true
}

// ClearPending drops the pending confirmation, used on cancel.
func (s *Session) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// UpdateContext stores a scratch value used to resolve references across
// turns (for example the employee found by the last search).
func (s *Session) UpdateContext(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == nil {
		delete(s.context, key)
		return
	}
	s.context[key] = value
}

// GetContext reads a scratch value.
func (s *Session) GetContext(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.context[key]
	return v, ok
}

// LogToolCall records an executed action for auditing.
func (s *Session) LogToolCall(action string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toolLog = append(s.toolLog, ToolCall{
		Action:    action,
		Success:   success,
		Timestamp: time.Now(),
	})
}

// ToolLog returns a copy of the recorded tool calls.
func (s *Session) ToolLog() []ToolCall {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ToolCall, len(s.toolLog))
	copy(out, s.toolLog)
	return out
}
