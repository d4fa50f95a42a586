package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "ebhutanza.company-registry", cfg.Kafka.IncorporationTopic)
}

func TestLoadParsesLists(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STORAGE_BACKEND", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"redis without url", func(c *Config) { c.Storage.Backend = BackendRedis }, "REDIS_URL"},
		{"postgres without url", func(c *Config) { c.Storage.Backend = BackendPostgres }, "DATABASE_URL"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, "unknown storage backend"},
		{"prod with dev key", func(c *Config) { c.Environment = "prod" }, "JWT_SIGNING_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Environment: "dev",
				Storage:     Storage{Backend: BackendMemory},
				Auth:        Auth{JWTSigningKey: "dev-secret-key-change-in-production"},
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
