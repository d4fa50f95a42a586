package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova19-exe/eBhutanza/internal/platform/config"
)

func roundTrip(t *testing.T, o *Opened) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, o.Store.Set(ctx, "applicationData_u1", `{"fields":{}}`))
	got, err := o.Store.Get(ctx, "applicationData_u1")
	require.NoError(t, err)
	assert.Equal(t, `{"fields":{}}`, got)
}

func TestOpenMemory(t *testing.T) {
	o, err := Open(context.Background(), config.Storage{Backend: config.BackendMemory}, nil)
	require.NoError(t, err)
	defer o.Close()
	assert.Equal(t, config.BackendMemory, o.Backend)
	roundTrip(t, o)
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	o, err := Open(context.Background(), config.Storage{Backend: config.BackendSQLite, SQLitePath: path}, nil)
	require.NoError(t, err)
	defer o.Close()
	roundTrip(t, o)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	o, err := Open(context.Background(), config.Storage{Backend: config.BackendRedis}, client)
	require.NoError(t, err)
	roundTrip(t, o)

	_, err = Open(context.Background(), config.Storage{Backend: config.BackendRedis}, nil)
	assert.Error(t, err)
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(context.Background(), config.Storage{Backend: "etcd"}, nil)
	assert.ErrorContains(t, err, "unknown storage backend")
}
