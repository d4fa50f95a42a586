// Package service is the identity provider: accounts, sessions and the
// revocation of signed-out tokens.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nova19-exe/eBhutanza/internal/identity/device"
	"github.com/nova19-exe/eBhutanza/internal/identity/metrics"
	"github.com/nova19-exe/eBhutanza/internal/identity/models"
	"github.com/nova19-exe/eBhutanza/internal/identity/token"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, userID id.UserID) error
}

type SessionStore interface {
	Save(ctx context.Context, sess *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
	DeleteByUser(ctx context.Context, userID id.UserID) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, sessionID id.SessionID, expiresIn time.Duration) (token.Issued, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service implements sign-up, sign-in, sign-out and session restoration.
type Service struct {
	users          UserStore
	sessions       SessionStore
	tokens         TokenIssuer
	revocations    RevocationList
	hasher         PasswordHasher
	tokenTTL       time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func New(users UserStore, sessions SessionStore, tokens TokenIssuer, revocations RevocationList, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		users:       users,
		sessions:    sessions,
		tokens:      tokens,
		revocations: revocations,
		hasher:      hasher,
		tokenTTL:    12 * time.Hour,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates the account and signs it in.
func (s *Service) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SessionResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	user := &models.User{
		ID:           id.NewUserID(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, models.ProviderMessage(models.CodeEmailInUse, err.Error()))
		}
		return nil, translate(err, "failed to create account")
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	if s.metrics != nil {
		s.metrics.IncrementSignUp()
	}
	s.emitAudit(ctx, user, audit.EventUserCreated, "")
	return s.startSession(ctx, user)
}

// SignIn verifies credentials. Unknown addresses and wrong passwords are
// indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, req *models.SignInRequest) (*models.SessionResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	invalid := dErrors.New(dErrors.CodeUnauthorized, models.ProviderMessage(models.CodeInvalidCredential, "invalid credential"))

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordSignInFailure(ctx, nil, req.Email, "unknown_email")
			return nil, invalid
		}
		return nil, translate(err, "failed to load account")
	}
	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.recordSignInFailure(ctx, user, req.Email, "bad_password")
			return nil, invalid
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}

	if s.metrics != nil {
		s.metrics.IncrementSignIn("success")
	}
	s.emitAudit(ctx, user, audit.EventUserSignedIn, "")
	return s.startSession(ctx, user)
}

func (s *Service) startSession(ctx context.Context, user *models.User) (*models.SessionResult, error) {
	now := requestcontext.Now(ctx)
	sess := &models.Session{
		ID:          id.NewSessionID(),
		UserID:      user.ID,
		DeviceLabel: device.Label(requestcontext.UserAgent(ctx)),
		ClientIP:    requestcontext.ClientIP(ctx),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.tokenTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, translate(err, "failed to create session")
	}
	issued, err := s.tokens.GenerateAccessToken(user.ID, sess.ID, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &models.SessionResult{
		User:        user.Public(),
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresAt:   issued.ExpiresAt,
		DeviceLabel: sess.DeviceLabel,
	}, nil
}

// SignOut revokes the presented token and ends its session.
func (s *Service) SignOut(ctx context.Context, userID id.UserID, sessionID id.SessionID, jti string) error {
	if err := s.revocations.RevokeToken(ctx, jti, s.tokenTTL); err != nil {
		return translate(err, "failed to revoke token")
	}
	if !sessionID.IsNil() {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "failed to delete session",
				"user_id", userID,
				"session_id", sessionID,
				"error", err,
			)
		}
	}
	if s.metrics != nil {
		s.metrics.IncrementSignOut()
	}
	s.emitAudit(ctx, &models.User{ID: userID}, audit.EventUserSignedOut, "")
	return nil
}

// CurrentUser restores the session behind a validated token.
func (s *Service) CurrentUser(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.CurrentSession, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &models.CurrentSession{User: user.Public()}
	if !sessionID.IsNil() {
		sess, err := s.sessions.FindByID(ctx, sessionID)
		switch {
		case err == nil:
			out.Session = sess
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session has ended")
		default:
			return nil, translate(err, "failed to load session")
		}
	}
	return out, nil
}

// GetUser loads an account.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, translate(err, "failed to load account")
	}
	return user, nil
}

// UpdateDisplayName renames the account.
func (s *Service) UpdateDisplayName(ctx context.Context, userID id.UserID, name string) (*models.User, error) {
	if err := models.ValidateDisplayName(name); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.DisplayName = name
	user.UpdatedAt = requestcontext.Now(ctx)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, translate(err, "failed to update account")
	}
	return user, nil
}

// ChangePassword requires the current password.
func (s *Service) ChangePassword(ctx context.Context, userID id.UserID, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.emitAudit(ctx, user, audit.EventAuthFailed, "password_change_bad_current")
			return dErrors.New(dErrors.CodeUnauthorized, "Current password is incorrect.")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user.PasswordHash = hash
	user.UpdatedAt = requestcontext.Now(ctx)
	if err := s.users.Update(ctx, user); err != nil {
		return translate(err, "failed to update password")
	}
	s.emitAudit(ctx, user, audit.EventPasswordChanged, "")
	return nil
}

// DeleteUser removes the account, revokes the caller's token and ends every
// session the account has open.
func (s *Service) DeleteUser(ctx context.Context, userID id.UserID, sessionID id.SessionID, jti string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return translate(err, "failed to delete account")
	}
	if err := s.revocations.RevokeToken(ctx, jti, s.tokenTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke token of deleted user",
			"user_id", userID,
			"error", err,
		)
	}
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete sessions of deleted user",
			"user_id", userID,
			"error", err,
		)
		if !sessionID.IsNil() {
			if err := s.sessions.Delete(ctx, sessionID); err != nil {
				s.logger.WarnContext(ctx, "failed to delete session",
					"user_id", userID,
					"session_id", sessionID,
					"error", err,
				)
			}
		}
	}
	if s.metrics != nil {
		s.metrics.IncrementUserDeleted()
	}
	s.emitAudit(ctx, user, audit.EventUserDeleted, "")
	return nil
}

// IsTokenRevoked satisfies the auth middleware's revocation check.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revocations.IsRevoked(ctx, jti)
}

// IsSessionActive satisfies the auth middleware's session check. Tokens
// issued without a session are not tied to one.
func (s *Service) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return true, nil
	}
	sid, err := id.ParseSessionID(sessionID)
	if err != nil {
		return false, nil
	}
	_, err = s.sessions.FindByID(ctx, sid)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) recordSignInFailure(ctx context.Context, user *models.User, email, reason string) {
	s.logger.WarnContext(ctx, "sign-in failed",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementSignIn("failure")
	}
	if user == nil {
		user = &models.User{Email: email}
	}
	s.emitAudit(ctx, user, audit.EventAuthFailed, reason)
}

func (s *Service) emitAudit(ctx context.Context, user *models.User, event audit.AuditEvent, reason string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  user.ID,
		Subject: user.ID.String(),
		Action:  string(event),
		Reason:  reason,
		Email:   user.Email,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event,
			"error", err,
		)
	}
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
