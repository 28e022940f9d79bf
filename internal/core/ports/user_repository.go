package ports

import (
	"context"
	"time"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

// UserUpdate carries a partial update for a user record. Nil fields are left
// untouched. These three fields are the only mutable ones; everything else is
// fixed at creation.
type UserUpdate struct {
	Role         *domain.Role
	PasswordHash *string
	LastLogin    *time.Time
}

// UserRepository is the persistence port for the user directory.
//
// Insert must enforce email uniqueness atomically at the storage layer
// (unique index or equivalent) and return domain.ErrEmailTaken on violation;
// an application-level existence check alone is not sufficient under
// concurrent inserts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}
