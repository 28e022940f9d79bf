package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/guard"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

// legacyAdminAlias is the historical login identifier that maps to the
// default administrator's real email. A one-time compatibility shim, not a
// general alias table.
const legacyAdminAlias = "admin"

// AuthService verifies credentials and issues the session material handed to
// the client after a successful login.
type AuthService struct {
	repo              ports.UserRepository
	hasher            *PasswordHasher
	sessions          ports.SessionCache
	audit             ports.AuditSink
	verifier          *guard.Guard
	jwtSecret         string
	tokenTTL          time.Duration
	defaultAdminEmail string
	log               zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher *PasswordHasher, sessions ports.SessionCache, audit ports.AuditSink, verifier *guard.Guard, jwtSecret string, tokenTTL time.Duration, defaultAdminEmail string, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if verifier == nil {
		verifier = guard.New()
	}
	return &AuthService{
		repo:              repo,
		hasher:            hasher,
		sessions:          sessions,
		audit:             audit,
		verifier:          verifier,
		jwtSecret:         jwtSecret,
		tokenTTL:          tokenTTL,
		defaultAdminEmail: defaultAdminEmail,
		log:               log,
	}
}

// Login resolves identifier to a user record and checks the credential.
//
// The unknown-identifier and wrong-password branches both return
// domain.ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidArgument
	}

	email := identifier
	if identifier == legacyAdminAlias {
		email = s.defaultAdminEmail
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.publish(ports.AuditEvent{Actor: email, Action: domain.AuditLoginFailed})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.publish(ports.AuditEvent{Actor: email, Action: domain.AuditLoginFailed})
		return nil, domain.ErrInvalidCredentials
	}

	// Best-effort bookkeeping: a failed timestamp write must not fail a
	// login that already succeeded.
	now := time.Now().UTC()
	if _, err := s.repo.Update(ctx, user.ID, ports.UserUpdate{LastLogin: &now}); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("last_login update failed")
	}
	user.LastLogin = &now

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	sanitized := user.Sanitized()

	sessionID := uuid.NewString()
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, sessionID, sanitized); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session cache write failed")
		}
	}

	s.publish(ports.AuditEvent{Actor: email, Action: domain.AuditLoginSucceeded, Subject: user.ID})

	return &ports.LoginResult{Token: token, SessionID: sessionID, User: sanitized}, nil
}

// Logout discards the cached profile for the given session id.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrInvalidArgument
	}
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// VerifySession turns the cached profile for sessionID into a session
// indicator and evaluates it through the guard. A missing or expired session
// yields an unauthenticated indicator, not an error: the guard redirects to
// login, which is the answer the caller needs.
func (s *AuthService) VerifySession(ctx context.Context, sessionID string, requiredRoles []domain.Role) (guard.Outcome, error) {
	var indicator domain.SessionIndicator
	if sessionID != "" && s.sessions != nil {
		user, err := s.sessions.Get(ctx, sessionID)
		switch {
		case err == nil:
			indicator = domain.SessionIndicator{Authenticated: true, User: user}
		case errors.Is(err, domain.ErrUserNotFound):
			// Unknown session: fall through unauthenticated.
		default:
			return guard.OutcomeUndecided, fmt.Errorf("session lookup: %w", err)
		}
	}
	return s.verifier.Evaluate(ctx, indicator, requiredRoles)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) publish(event ports.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.At = time.Now().UTC()
	s.audit.Enqueue(event)
}
