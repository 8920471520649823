package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	err := s.RecordInteraction(ctx, Interaction{
		SessionID:     "default_user",
		QuestionHash:  HashQuestion("Tell me about your projects"),
		Intent:        "project_query",
		Strategy:      "evidence_strategy",
		RecruiterType: "TECH_LEAD",
		Confidence:    0.82,
		LLMUsed:       true,
		LatencyMS:     412.5,
	})
	require.NoError(t, err)

	got, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "project_query", got[0].Intent)
	assert.Equal(t, "evidence_strategy", got[0].Strategy)
	assert.Equal(t, "TECH_LEAD", got[0].RecruiterType)
	assert.InDelta(t, 0.82, got[0].Confidence, 0.001)
	assert.True(t, got[0].LLMUsed)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestSQLiteStore_ListRecent_OrderAndLimit(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordInteraction(ctx, Interaction{
			SessionID:    "default_user",
			QuestionHash: HashQuestion("q"),
			Intent:       "skills_query",
			Strategy:     "summary_strategy",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
}

func TestSQLiteStore_ListRecent_Empty(t *testing.T) {
	s := newTestSQLiteStore(t)

	got, err := s.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
