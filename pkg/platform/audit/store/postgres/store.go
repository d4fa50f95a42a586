package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	audit "github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	category   TEXT NOT NULL,
	user_id    UUID,
	action     TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	reason     TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_events_user_idx ON audit_events (user_id, created_at)`

// Store appends audit events to PostgreSQL, joining any transaction in ctx.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Append writes an audit event. The category is always derived from the action.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var userID any
	if !event.UserID.IsNil() {
		userID = uuid.UUID(event.UserID)
	}
	query := `
		INSERT INTO audit_events (id, category, user_id, action, subject, reason, email, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		string(audit.AuditEvent(event.Action).Category()),
		userID,
		event.Action,
		event.Subject,
		event.Reason,
		event.Email,
		event.RequestID,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns a user's events oldest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, action, subject, reason, email, request_id, created_at
		FROM audit_events
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		e := audit.Event{UserID: userID}
		var category string
		if err := rows.Scan(&category, &e.Action, &e.Subject, &e.Reason, &e.Email, &e.RequestID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
