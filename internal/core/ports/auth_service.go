package ports

import (
	"context"

	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/guard"
)

// LoginResult is what a successful credential verification hands back to the
// transport layer. User is always sanitized.
type LoginResult struct {
	Token     string
	SessionID string
	User      *domain.User
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	// VerifySession rebuilds the session indicator from the cached profile
	// and runs it through the authorization guard.
	VerifySession(ctx context.Context, sessionID string, requiredRoles []domain.Role) (guard.Outcome, error)
}
