package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
	"github.com/nova19-exe/eBhutanza/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store persists kv entries in PostgreSQL. Joins a transaction carried in
// the context (see pkg/platform/tx).
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects with lib/pq and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := New(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, db, nil
}

// EnsureSchema creates the kv table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create kv schema: %w", err)
	}
	return nil
}

// DB exposes the pool so callers can open transactions with tx.Run.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := tx.ExecutorFor(ctx, s.db).
		QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", classify("get kv entry", err)
	}
	return value, nil
}

const upsert = `
	INSERT INTO kv_entries (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at
`

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, upsert, key, value); err != nil {
		return classify("set kv entry", err)
	}
	return nil
}

func (s *Store) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		exec := tx.ExecutorFor(ctx, s.db)
		for k, v := range entries {
			if _, err := exec.ExecContext(ctx, upsert, k, v); err != nil {
				return classify("set kv entries", err)
			}
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := tx.ExecutorFor(ctx, s.db).
		ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ANY($1)`, pq.Array(keys))
	if err != nil {
		return classify("delete kv entries", err)
	}
	return nil
}

// classify flags resource exhaustion and connection failures as unavailable.
// SQLSTATE classes: 08 connection exception, 53 insufficient resources,
// 57 operator intervention.
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
