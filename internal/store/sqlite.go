package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS interactions (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	question_hash  TEXT NOT NULL,
	intent         TEXT NOT NULL,
	strategy       TEXT NOT NULL,
	recruiter_type TEXT NOT NULL,
	confidence     REAL NOT NULL,
	llm_used       INTEGER NOT NULL DEFAULT 0,
	latency_ms     REAL NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_interactions_session_id ON interactions(session_id);
CREATE INDEX IF NOT EXISTS idx_interactions_intent ON interactions(intent);
CREATE INDEX IF NOT EXISTS idx_interactions_created_at ON interactions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordInteraction(ctx context.Context, in Interaction) error {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions
		 (id, session_id, question_hash, intent, strategy, recruiter_type, confidence, llm_used, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.SessionID, in.QuestionHash, in.Intent, in.Strategy,
		in.RecruiterType, in.Confidence, in.LLMUsed, in.LatencyMS, in.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert interaction")
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, question_hash, intent, strategy, recruiter_type, confidence, llm_used, latency_ms, created_at
		 FROM interactions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list interactions")
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		if err := rows.Scan(
			&in.ID, &in.SessionID, &in.QuestionHash, &in.Intent, &in.Strategy,
			&in.RecruiterType, &in.Confidence, &in.LLMUsed, &in.LatencyMS, &in.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan interaction")
		}
		out = append(out, in)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate interactions")
}
