package ports

import (
	"context"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

// UserUpdateInput is a combined role/password update request. At least one
// field must be set; an empty update is rejected with domain.ErrInvalidArgument.
type UserUpdateInput struct {
	Role        *domain.Role
	NewPassword *string
}

type UserService interface {
	Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error)
	ResetPassword(ctx context.Context, id, newPassword string) (*domain.User, error)
	ChangeOwnPassword(ctx context.Context, id, currentPassword, newPassword string) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}
