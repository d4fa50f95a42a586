package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
)

func TestAccessorsDefaultToZeroValues(t *testing.T) {
	ctx := context.Background()
	assert.True(t, UserID(ctx).IsNil())
	assert.True(t, SessionID(ctx).IsNil())
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, TokenID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestAccessorsRoundTrip(t *testing.T) {
	userID := id.NewUserID()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	ctx := WithUserID(context.Background(), userID)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTokenID(ctx, "jti-1")
	ctx = WithTime(ctx, fixed)
	ctx = WithClientMetadata(ctx, "10.0.0.1", "curl/8.0")

	assert.Equal(t, userID, UserID(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "jti-1", TokenID(ctx))
	assert.Equal(t, fixed, Now(ctx))
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))
	assert.Equal(t, "curl/8.0", UserAgent(ctx))
}
