package session

import "sync"

const defaultMaxHistory = 50

// Store manages sessions by id. Sessions are created on first use and live
// until explicitly deleted; durability is a collaborator's concern.
type Store struct {
	maxHistory int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a store whose sessions retain at most maxHistory turns.
func NewStore(maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &Store{
		maxHistory: maxHistory,
		sessions:   make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, creating it for owner on first use.
func (st *Store) GetOrCreate(id, owner string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		return s
	}
	s := &Session{
		ID:         id,
		Owner:      owner,
		maxHistory: st.maxHistory,
		context:    make(map[string]any),
	}
	st.sessions[id] = s
	return s
}

// Get returns the session for id, if it exists.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// List returns all session ids.
func (st *Store) List() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	return ids
}
