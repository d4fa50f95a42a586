// Package config loads process configuration from the environment. A .env
// file in the working directory is honoured for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends for the durable key-value store.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is the root configuration for the portal backend.
type Config struct {
	Environment string `env:"EBHUTANZA_ENV" envDefault:"dev"`
	LogLevel    string `env:"EBHUTANZA_LOG_LEVEL" envDefault:"info"`

	Server     Server
	Auth       Auth
	Storage    Storage
	Redis      RedisConfig
	Compliance Compliance
	Kafka      Kafka
	Email      Email
	Telemetry  Telemetry
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"EBHUTANZA_ADDR" envDefault:":8080"`
	AdminToken      string        `env:"EBHUTANZA_ADMIN_TOKEN"`
	ShutdownTimeout time.Duration `env:"EBHUTANZA_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Auth configures session tokens.
type Auth struct {
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer        string        `env:"JWT_ISSUER" envDefault:"ebhutanza"`
	Audience      string        `env:"JWT_AUDIENCE" envDefault:"ebhutanza-portal"`
	TokenTTL      time.Duration `env:"JWT_TOKEN_TTL" envDefault:"12h"`
}

// Storage selects the durable key-value backend.
type Storage struct {
	Backend     string `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"ebhutanza.db"`
}

// RedisConfig configures the shared redis client used by the redis KV
// backend and the token revocation list.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Compliance configures the OpenAI-compatible model endpoint.
type Compliance struct {
	BaseURL     string        `env:"COMPLIANCE_LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model       string        `env:"COMPLIANCE_LLM_MODEL" envDefault:"gpt-4o-mini"`
	APIKey      string        `env:"COMPLIANCE_LLM_API_KEY"`
	Timeout     time.Duration `env:"COMPLIANCE_LLM_TIMEOUT" envDefault:"60s"`
	Temperature float64       `env:"COMPLIANCE_LLM_TEMPERATURE" envDefault:"0.2"`
}

// Kafka configures the event publisher. No brokers disables publishing.
type Kafka struct {
	Brokers            []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic         string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"ebhutanza.audit"`
	IncorporationTopic string   `env:"KAFKA_INCORPORATION_TOPIC" envDefault:"ebhutanza.company-registry"`
}

// Email configures SES notifications. No sender disables delivery.
type Email struct {
	Region string `env:"AWS_REGION" envDefault:"ap-south-1"`
	Sender string `env:"EMAIL_SENDER"`
}

// Telemetry configures OTLP tracing. Empty endpoint disables export.
type Telemetry struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"ebhutanza"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("config: REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Environment == "prod" && c.Auth.JWTSigningKey == "dev-secret-key-change-in-production" {
		return errors.New("config: JWT_SIGNING_KEY must be set in prod")
	}
	return nil
}
