package ports

import (
	"context"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

// SessionCache holds the server-side copy of the profile cached at login,
// keyed by session id. The client-held SessionIndicator remains advisory;
// this cache only lets callers re-fetch the sanitized profile without a
// directory round trip.
type SessionCache interface {
	Save(ctx context.Context, sessionID string, user *domain.User) error
	Get(ctx context.Context, sessionID string) (*domain.User, error)
	Delete(ctx context.Context, sessionID string) error
}
