// Package kv defines the durable key-value store the portal keeps per-user
// state in. Keys are plain strings laid out by the owning module; values are
// opaque strings (usually JSON).
//
// Backends live in subpackages (memory, redis, postgres, sqlite) and return
// sentinel.ErrNotFound for missing keys and sentinel.ErrUnavailable when the
// backend cannot serve the request.
package kv

import "context"

// Store is the durable key-value contract shared by every backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all entries or none.
	SetMany(ctx context.Context, entries map[string]string) error
	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
