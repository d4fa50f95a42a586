package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nova19-exe/eBhutanza/internal/kv"
	"github.com/nova19-exe/eBhutanza/internal/kv/kvtest"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	kvtest.StoreSuite
}

func TestMemoryStoreSuite(t *testing.T) {
	s := new(MemoryStoreSuite)
	s.NewStore = func() kv.Store { return New() }
	suite.Run(t, s)
}

func TestFailWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "k", "v"))

	s.FailWrites(true)
	require.ErrorIs(t, s.Set(ctx, "k", "w"), sentinel.ErrUnavailable)
	require.ErrorIs(t, s.SetMany(ctx, map[string]string{"k": "w"}), sentinel.ErrUnavailable)

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)
}
