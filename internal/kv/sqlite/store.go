package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
	"github.com/nova19-exe/eBhutanza/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (unixepoch())
)`

// Store persists kv entries in a local SQLite file. It is the single-node
// durable backend used by development deployments and the operator CLI.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; WAL keeps readers unblocked.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := tx.ExecutorFor(ctx, s.db).
		QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", unavailable("get kv entry", err)
	}
	return value, nil
}

const upsert = `
	INSERT INTO kv_entries (key, value, updated_at)
	VALUES (?, ?, unixepoch())
	ON CONFLICT (key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, upsert, key, value); err != nil {
		return unavailable("set kv entry", err)
	}
	return nil
}

func (s *Store) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		exec := tx.ExecutorFor(ctx, s.db)
		for k, v := range entries {
			if _, err := exec.ExecContext(ctx, upsert, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("set kv entries", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := `DELETE FROM kv_entries WHERE key IN (` + placeholders + `)`
	if _, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return unavailable("delete kv entries", err)
	}
	return nil
}

// unavailable marks a driver failure as a backend outage.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
}
