// Package domain holds identifier types shared across modules.
//
// Each identifier wraps a uuid.UUID in its own named type so a user ID can
// never be passed where a session or incorporation ID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

type (
	UserID          uuid.UUID
	SessionID       uuid.UUID
	IncorporationID uuid.UUID
)

func (id UserID) String() string          { return uuid.UUID(id).String() }
func (id SessionID) String() string       { return uuid.UUID(id).String() }
func (id IncorporationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id IncorporationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func NewUserID() UserID                   { return UserID(uuid.New()) }
func NewSessionID() SessionID             { return SessionID(uuid.New()) }
func NewIncorporationID() IncorporationID { return IncorporationID(uuid.New()) }

// ParseUserID parses s, rejecting empty, malformed and nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

// ParseSessionID parses s, rejecting empty, malformed and nil UUIDs.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session ID")
	return SessionID(u), err
}

// ParseIncorporationID parses s, rejecting empty, malformed and nil UUIDs.
func ParseIncorporationID(s string) (IncorporationID, error) {
	u, err := parseUUID(s, "incorporation ID")
	return IncorporationID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

// MarshalText lets typed IDs serialise as plain UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id IncorporationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *IncorporationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = IncorporationID(u)
	return nil
}
