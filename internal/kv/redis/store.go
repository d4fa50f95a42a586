package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

var opDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ebhutanza_kv_redis_op_duration_ms",
	Help:    "Latency of redis kv operations in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
}, []string{"op"})

const defaultPrefix = "ebhutanza:kv:"

// Store is a Redis-backed kv.Store. Entries never expire.
type Store struct {
	client *redis.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces keys, e.g. per environment.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New constructs a Redis-backed store. The client lifecycle is managed by the caller.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	defer observe("get", time.Now())
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", classify("get", err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	defer observe("set", time.Now())
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return classify("set", err)
	}
	return nil
}

// SetMany writes all entries in one MULTI/EXEC transaction.
func (s *Store) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	defer observe("set_many", time.Now())
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return classify("set many", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	defer observe("delete", time.Now())
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return classify("delete", err)
	}
	return nil
}

func observe(op string, start time.Time) {
	opDurationMs.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// classify maps transport failures onto ErrUnavailable so services can
// degrade instead of failing the request.
func classify(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	return fmt.Errorf("redis %s: %w: %w", op, sentinel.ErrUnavailable, err)
}
