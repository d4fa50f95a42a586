package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nova19-exe/eBhutanza/internal/kv"
	"github.com/nova19-exe/eBhutanza/internal/kv/kvtest"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

type SQLiteStoreSuite struct {
	kvtest.StoreSuite
}

func TestSQLiteStoreSuite(t *testing.T) {
	s := new(SQLiteStoreSuite)
	s.NewStore = func() kv.Store {
		store, err := Open(context.Background(), filepath.Join(s.T().TempDir(), "kv.db"))
		s.Require().NoError(err)
		s.T().Cleanup(func() { _ = store.Close() })
		return store
	}
	suite.Run(t, s)
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "applicationStatusKey_u1", "submittedForReview"))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get(ctx, "applicationStatusKey_u1")
	require.NoError(t, err)
	require.Equal(t, "submittedForReview", v)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	require.Error(t, err)
}

func TestClosedDatabaseIsUnavailable(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get(ctx, "applicationData_u1")
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	require.ErrorIs(t, store.Delete(ctx, "applicationData_u1"), sentinel.ErrUnavailable)
	require.ErrorIs(t, store.Set(ctx, "applicationData_u1", "{}"), sentinel.ErrUnavailable)
	require.ErrorIs(t, store.SetMany(ctx, map[string]string{"applicationData_u1": "{}"}), sentinel.ErrUnavailable)
}
