// Package backend opens the kv.Store selected by configuration.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nova19-exe/eBhutanza/internal/kv"
	"github.com/nova19-exe/eBhutanza/internal/kv/memory"
	"github.com/nova19-exe/eBhutanza/internal/kv/postgres"
	kvredis "github.com/nova19-exe/eBhutanza/internal/kv/redis"
	"github.com/nova19-exe/eBhutanza/internal/kv/sqlite"
	"github.com/nova19-exe/eBhutanza/internal/platform/config"
)

// Opened is an open backend. DB is set for the postgres backend so other
// stores (audit) can share the pool.
type Opened struct {
	Store   kv.Store
	Backend string
	DB      *sql.DB
	close   func() error
}

// Close releases the backend's resources. Shared clients are left open.
func (o *Opened) Close() error {
	if o == nil || o.close == nil {
		return nil
	}
	return o.close()
}

// Open builds the store for cfg.Backend. redisClient is required for the
// redis backend and ignored otherwise.
func Open(ctx context.Context, cfg config.Storage, redisClient *goredis.Client) (*Opened, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return &Opened{Store: memory.New(), Backend: config.BackendMemory}, nil
	case config.BackendRedis:
		if redisClient == nil {
			return nil, errors.New("redis backend requires a redis client")
		}
		return &Opened{Store: kvredis.New(redisClient), Backend: cfg.Backend}, nil
	case config.BackendPostgres:
		store, db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Opened{Store: store, Backend: cfg.Backend, DB: db, close: db.Close}, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Opened{Store: store, Backend: cfg.Backend, close: store.Close}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
