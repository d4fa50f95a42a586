package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	audit "github.com/nova19-exe/eBhutanza/pkg/platform/audit"
)

func TestAppendDerivesCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := id.NewUserID()
	ts := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_events")).
		WithArgs(sqlmock.AnyArg(), "compliance", uuid.UUID(userID), "draft_submitted", "", "", "", "req-9", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = New(db).Append(context.Background(), audit.Event{
		UserID:    userID,
		Action:    string(audit.EventDraftSubmitted),
		RequestID: "req-9",
		Timestamp: ts,
		// A caller-supplied category is ignored in favour of the action's.
		Category: audit.CategoryOperations,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUserScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := id.NewUserID()
	ts := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_events")).
		WithArgs(uuid.UUID(userID)).
		WillReturnRows(sqlmock.NewRows([]string{"category", "action", "subject", "reason", "email", "request_id", "created_at"}).
			AddRow("security", "user_signed_out", "", "", "", "req-1", ts))

	events, err := New(db).ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, audit.CategorySecurity, events[0].Category)
	require.Equal(t, userID, events[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}
