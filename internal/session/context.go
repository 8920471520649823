// Package session holds per-session conversational state: the context store
// feeding intent ranking and the recruiter-type session manager.
package session

import "sync"

// maxRecentIntents bounds the per-session intent ring.
const maxRecentIntents = 5

// ContextState is the conversational state for one session. Copies returned
// by the store are safe to read without holding its lock.
type ContextState struct {
	SessionID           string
	CurrentPage         string
	LastProjectViewed   string
	RecentIntents       []string
	ConversationSummary string
	LastEntities        map[string][]string
}

// LastIntent returns the most recently recorded intent, or "".
func (c ContextState) LastIntent() string {
	if len(c.RecentIntents) == 0 {
		return ""
	}
	return c.RecentIntents[len(c.RecentIntents)-1]
}

// ContextUpdate carries the fields to merge into a session's state after a
// request completes. Empty fields are left untouched.
type ContextUpdate struct {
	CurrentPage       string
	LastProjectViewed string
	LastEntities      map[string][]string
	Intent            string
	Question          string
}

// ContextStore keeps ContextState per session id for the process lifetime.
type ContextStore struct {
	mu     sync.Mutex
	states map[string]*ContextState
}

// NewContextStore creates an empty context store.
func NewContextStore() *ContextStore {
	return &ContextStore{states: make(map[string]*ContextState)}
}

// Load returns a copy of the state for sessionID, creating it on first
// access. An empty session id yields a transient empty state that is never
// persisted.
func (s *ContextStore) Load(sessionID string) ContextState {
	if sessionID == "" {
		return ContextState{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[sessionID]
	if !ok {
		state = &ContextState{SessionID: sessionID}
		s.states[sessionID] = state
	}
	return copyState(state)
}

// Update merges upd into the session's state. Intents are appended to a ring
// that keeps only the 5 most recent; the question becomes the rolling
// conversation summary. A missing session id is a no-op.
func (s *ContextStore) Update(sessionID string, upd ContextUpdate) {
	if sessionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[sessionID]
	if !ok {
		state = &ContextState{SessionID: sessionID}
		s.states[sessionID] = state
	}

	if upd.CurrentPage != "" {
		state.CurrentPage = upd.CurrentPage
	}
	if upd.LastProjectViewed != "" {
		state.LastProjectViewed = upd.LastProjectViewed
	}
	if upd.LastEntities != nil {
		state.LastEntities = upd.LastEntities
	}
	if upd.Intent != "" {
		state.RecentIntents = append(state.RecentIntents, upd.Intent)
		if len(state.RecentIntents) > maxRecentIntents {
			state.RecentIntents = state.RecentIntents[len(state.RecentIntents)-maxRecentIntents:]
		}
	}
	if upd.Question != "" {
		state.ConversationSummary = upd.Question
	}
}

func copyState(state *ContextState) ContextState {
	out := *state
	out.RecentIntents = append([]string(nil), state.RecentIntents...)
	if state.LastEntities != nil {
		entities := make(map[string][]string, len(state.LastEntities))
		for k, v := range state.LastEntities {
			entities[k] = append([]string(nil), v...)
		}
		out.LastEntities = entities
	}
	return out
}
