package models

import (
	"strings"
	"time"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
)

// User is a portal account.
type User struct {
	ID           id.UserID `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public is the user as returned to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		UID:         u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// WelcomeName is the display name, else the e-mail local part, else "User".
func (u *User) WelcomeName() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

// PublicUser never carries the password hash.
type PublicUser struct {
	UID         id.UserID `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session is one signed-in device.
type Session struct {
	ID          id.SessionID `json:"id"`
	UserID      id.UserID    `json:"userId"`
	DeviceLabel string       `json:"deviceLabel"`
	ClientIP    string       `json:"clientIp,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// SessionResult is returned by sign-up and sign-in.
type SessionResult struct {
	User        PublicUser `json:"user"`
	AccessToken string     `json:"accessToken"`
	TokenType   string     `json:"tokenType"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	DeviceLabel string     `json:"deviceLabel"`
}

// CurrentSession is the restored session for a bearer token.
type CurrentSession struct {
	User    PublicUser `json:"user"`
	Session *Session   `json:"session,omitempty"`
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
