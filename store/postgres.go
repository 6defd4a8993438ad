// Package store persists session records to PostgreSQL.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/signlang-ai/signstream/gesture"
	"github.com/signlang-ai/signstream/orchestrator"
	"github.com/signlang-ai/signstream/summary"
)

type Postgres struct {
	conn *pgx.Conn
}

func Open(ctx context.Context, dbURL string) (*Postgres, error) {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{conn: conn}, nil
}

func (p *Postgres) Close(ctx context.Context) error { return p.conn.Close(ctx) }

func (p *Postgres) Name() string { return "postgres" }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sign_sessions (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL DEFAULT '',
		user_id       TEXT NOT NULL DEFAULT '',
		started_at    TIMESTAMPTZ NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		seconds_spent DOUBLE PRECISION NOT NULL,
		event_count   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sign_session_signs (
		session_id TEXT NOT NULL REFERENCES sign_sessions(id) ON DELETE CASCADE,
		rank       INTEGER NOT NULL,
		sign       TEXT NOT NULL,
		count      INTEGER NOT NULL,
		PRIMARY KEY (session_id, rank)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sign_sessions_user ON sign_sessions(user_id, created_at DESC)`,
}

func (p *Postgres) Migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := p.conn.Exec(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

type signRow struct {
	rank  int
	sign  string
	count int
}

// signRows ranks are 1-based, in summary order.
func signRows(signs []summary.SignCount) []signRow {
	out := make([]signRow, 0, len(signs))
	for i, s := range signs {
		out = append(out, signRow{rank: i + 1, sign: s.Sign, count: s.Count})
	}
	return out
}

// Save writes the record and its ranked signs in one transaction.
func (p *Postgres) Save(ctx context.Context, rec orchestrator.SessionRecord, events []gesture.ConfirmedEvent) error {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO sign_sessions (id, username, user_id, started_at, created_at, seconds_spent, event_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Username, rec.UserID, rec.StartedAt, rec.CreatedAt, rec.SecondsSpent, len(events),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	batch := &pgx.Batch{}
	for _, r := range signRows(rec.SignsPerformed) {
		batch.Queue(`INSERT INTO sign_session_signs (session_id, rank, sign, count) VALUES ($1, $2, $3, $4)`,
			rec.ID, r.rank, r.sign, r.count)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert signs: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// History returns a user's most recent sessions, newest first.
func (p *Postgres) History(ctx context.Context, userID string, limit int) ([]orchestrator.SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := p.conn.Query(ctx, `
		SELECT id, username, user_id, started_at, created_at, seconds_spent
		FROM sign_sessions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (orchestrator.SessionRecord, error) {
		var r orchestrator.SessionRecord
		err := row.Scan(&r.ID, &r.Username, &r.UserID, &r.StartedAt, &r.CreatedAt, &r.SecondsSpent)
		return r, err
	})
	if err != nil {
		return nil, err
	}
	for i := range recs {
		signs, err := p.signs(ctx, recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].SignsPerformed = signs
	}
	return recs, nil
}

func (p *Postgres) signs(ctx context.Context, sessionID string) ([]summary.SignCount, error) {
	rows, err := p.conn.Query(ctx,
		`SELECT sign, count FROM sign_session_signs WHERE session_id = $1 ORDER BY rank`, sessionID)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (summary.SignCount, error) {
		var s summary.SignCount
		err := row.Scan(&s.Sign, &s.Count)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []summary.SignCount{}
	}
	return out, nil
}
