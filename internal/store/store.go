// Package store persists a privacy-preserving log of pipeline interactions.
// Questions are stored as hashes, never as raw text.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Interaction is one processed question, recorded after the pipeline
// finishes. QuestionHash is a truncated SHA-256 of the normalized question.
type Interaction struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	QuestionHash  string    `json:"question_hash"`
	Intent        string    `json:"intent"`
	Strategy      string    `json:"strategy"`
	RecruiterType string    `json:"recruiter_type"`
	Confidence    float64   `json:"confidence"`
	LLMUsed       bool      `json:"llm_used"`
	LatencyMS     float64   `json:"latency_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store defines the persistence interface for the interaction log.
type Store interface {
	RecordInteraction(ctx context.Context, in Interaction) error
	ListRecent(ctx context.Context, limit int) ([]Interaction, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver. Driver "off" returns a
// no-op store so the pipeline can run without persistence.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "off":
		return NoopStore{}, nil
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// HashQuestion returns the truncated SHA-256 hex digest stored in place of
// the raw question text.
func HashQuestion(question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question))))
	return hex.EncodeToString(sum[:])[:16]
}

// NoopStore discards every interaction. Used when persistence is disabled.
type NoopStore struct{}

func (NoopStore) RecordInteraction(context.Context, Interaction) error { return nil }

func (NoopStore) ListRecent(context.Context, int) ([]Interaction, error) { return nil, nil }

func (NoopStore) Migrate(context.Context) error { return nil }

func (NoopStore) Close() error { return nil }
