package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	audit "github.com/nova19-exe/eBhutanza/pkg/platform/audit"
)

func TestListByUserIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	alice, bob := id.NewUserID(), id.NewUserID()

	require.NoError(t, store.Append(ctx, audit.Event{UserID: alice, Action: "user_created"}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: bob, Action: "user_signed_in"}))

	events, err := store.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "user_created", events[0].Action)
}

func TestOperationsLimitKeepsComplianceEvents(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(WithOperationsLimit(2))
	user := id.NewUserID()

	appendEvent := func(action string, cat audit.EventCategory) {
		require.NoError(t, store.Append(ctx, audit.Event{UserID: user, Action: action, Category: cat}))
	}
	appendEvent("draft_submitted", audit.CategoryCompliance)
	appendEvent("signin-1", audit.CategoryOperations)
	appendEvent("signin-2", audit.CategoryOperations)
	appendEvent("signin-3", audit.CategoryOperations)

	events, err := store.ListByUser(ctx, user)
	require.NoError(t, err)
	var actions []string
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{"draft_submitted", "signin-2", "signin-3"}, actions)
}
