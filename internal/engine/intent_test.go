package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun-mehta/portfolio-agent/internal/session"
)

func TestRankIntents_ProjectQuestion(t *testing.T) {
	ranked := RankIntents("Tell me about your projects", session.ContextState{})

	require.NotEmpty(t, ranked)
	// "about" also matches about_query at the same 0.8; project_query wins
	// the tie by declaration order.
	assert.Equal(t, IntentProject, ranked[0].Name)
	assert.Equal(t, 0.8, ranked[0].Score)
}

func TestRankIntents_RoleFitOutranksSkills(t *testing.T) {
	ranked := RankIntents("Would you hire him for a backend role? What skills does he have?", session.ContextState{})

	assert.Equal(t, IntentRoleFit, ranked[0].Name)
	assert.Equal(t, 0.95, ranked[0].Score)
}

func TestRankIntents_NoMatchReturnsUnknown(t *testing.T) {
	ranked := RankIntents("What's your favorite color?", session.ContextState{})

	require.Len(t, ranked, 1)
	assert.Equal(t, IntentUnknown, ranked[0].Name)
	assert.Equal(t, 0.1, ranked[0].Score)
}

func TestRankIntents_CurrentPageBonus(t *testing.T) {
	ctx := session.ContextState{CurrentPage: "/projects"}
	ranked := RankIntents("anything else?", ctx)

	require.NotEmpty(t, ranked)
	assert.Equal(t, IntentProject, ranked[0].Name)
	assert.Equal(t, 0.6, ranked[0].Score)
}

func TestRankIntents_PageBonusNeverLowersPhraseScore(t *testing.T) {
	ctx := session.ContextState{CurrentPage: "/projects"}
	ranked := RankIntents("Tell me about your projects", ctx)

	assert.Equal(t, IntentProject, ranked[0].Name)
	assert.Equal(t, 0.8, ranked[0].Score)
}

func TestRankIntents_RecentIntentBonus(t *testing.T) {
	ctx := session.ContextState{RecentIntents: []string{IntentEducation}}
	ranked := RankIntents("and then?", ctx)

	require.NotEmpty(t, ranked)
	assert.Equal(t, IntentEducation, ranked[0].Name)
	assert.Equal(t, 0.5, ranked[0].Score)
}

func TestRankIntents_TieKeepsDeclarationOrder(t *testing.T) {
	// contact_query and about_query both score 0.8; contact is declared first.
	ranked := RankIntents("email him about this", session.ContextState{})

	require.GreaterOrEqual(t, len(ranked), 2)
	assert.Equal(t, IntentContact, ranked[0].Name)
	assert.Equal(t, IntentAbout, ranked[1].Name)
}

func TestRankIntents_Deterministic(t *testing.T) {
	ctx := session.ContextState{
		CurrentPage:   "/skills",
		RecentIntents: []string{IntentProject},
	}
	first := RankIntents("What is his experience with Go and Kubernetes?", ctx)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, RankIntents("What is his experience with Go and Kubernetes?", ctx))
	}
}
