package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: key or record does not exist
//   - ErrConflict: uniqueness constraint hit (e.g. e-mail already registered)
//   - ErrUnavailable: backend unreachable or quota exhausted
//   - ErrInvalidState: operation not valid for the current state
//
// Validation failures use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
