package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextStore_CreateOnFirstAccess(t *testing.T) {
	s := NewContextStore()

	state := s.Load("s1")
	assert.Equal(t, "s1", state.SessionID)
	assert.Empty(t, state.RecentIntents)
}

func TestContextStore_EmptySessionIDTransient(t *testing.T) {
	s := NewContextStore()

	state := s.Load("")
	assert.Empty(t, state.SessionID)

	s.Update("", ContextUpdate{Intent: "project_query"})
	assert.Empty(t, s.Load("").RecentIntents)
}

func TestContextStore_UpdateMerges(t *testing.T) {
	s := NewContextStore()
	s.Update("s1", ContextUpdate{
		CurrentPage: "/projects",
		Intent:      "project_query",
		Question:    "tell me about projects",
		LastEntities: map[string][]string{
			"projects": {"LedgerLink"},
		},
	})

	state := s.Load("s1")
	assert.Equal(t, "/projects", state.CurrentPage)
	assert.Equal(t, []string{"project_query"}, state.RecentIntents)
	assert.Equal(t, "tell me about projects", state.ConversationSummary)
	assert.Equal(t, []string{"LedgerLink"}, state.LastEntities["projects"])

	// Empty fields leave existing values untouched.
	s.Update("s1", ContextUpdate{Question: "next question"})
	state = s.Load("s1")
	assert.Equal(t, "/projects", state.CurrentPage)
	assert.Equal(t, "next question", state.ConversationSummary)
}

func TestContextStore_RecentIntentsRing(t *testing.T) {
	s := NewContextStore()
	for i := 0; i < 12; i++ {
		s.Update("s1", ContextUpdate{Intent: fmt.Sprintf("intent_%d", i)})
	}

	state := s.Load("s1")
	assert.Len(t, state.RecentIntents, 5)
	// Oldest evicted first.
	assert.Equal(t, []string{"intent_7", "intent_8", "intent_9", "intent_10", "intent_11"}, state.RecentIntents)
	assert.Equal(t, "intent_11", state.LastIntent())
}

func TestContextStore_LoadReturnsCopy(t *testing.T) {
	s := NewContextStore()
	s.Update("s1", ContextUpdate{Intent: "skills_query"})

	state := s.Load("s1")
	state.RecentIntents[0] = "mutated"
	state.CurrentPage = "mutated"

	fresh := s.Load("s1")
	assert.Equal(t, []string{"skills_query"}, fresh.RecentIntents)
	assert.Empty(t, fresh.CurrentPage)
}

func TestContextState_LastIntentEmpty(t *testing.T) {
	assert.Empty(t, ContextState{}.LastIntent())
}
