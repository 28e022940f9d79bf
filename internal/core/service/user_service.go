package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

const minPasswordLength = 6

// emailShape is deliberately loose: one non-empty local part, one @, one
// non-empty domain. Anything stricter belongs to a mail delivery layer.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// UserService owns the directory lifecycle: create, combined role/password
// update, own-password change, removal, listing.
type UserService struct {
	repo   ports.UserRepository
	hasher *PasswordHasher
	audit  ports.AuditSink
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher *PasswordHasher, audit ports.AuditSink, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, audit: audit, log: log}
}

// Create validates all four fields and inserts a new user. The uniqueness
// race between two concurrent creates is closed by the repository's unique
// email index, not by a check here.
func (s *UserService) Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" || role == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !emailShape.MatchString(email) {
		return nil, domain.ErrInvalidArgument
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrInvalidArgument
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidArgument
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ports.AuditEvent{Actor: email, Action: domain.AuditUserCreated, Subject: created.ID})
	return created.Sanitized(), nil
}

// Update applies a combined role/password update. An empty request is
// rejected; role reassignment accepts only the administrative tiers.
func (s *UserService) Update(ctx context.Context, id string, input ports.UserUpdateInput) (*domain.User, error) {
	if id == "" || (input.Role == nil && input.NewPassword == nil) {
		return nil, domain.ErrInvalidArgument
	}

	var update ports.UserUpdate
	if input.Role != nil {
		if !input.Role.Assignable() {
			return nil, domain.ErrInvalidArgument
		}
		update.Role = input.Role
	}
	if input.NewPassword != nil {
		if len(*input.NewPassword) < minPasswordLength {
			return nil, domain.ErrInvalidArgument
		}
		hash, err := s.hasher.Hash(*input.NewPassword)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.publish(ports.AuditEvent{Actor: updated.Email, Action: domain.AuditUserUpdated, Subject: id})
	return updated.Sanitized(), nil
}

// ResetPassword is the administrative reset: no current-password proof, the
// caller's authority comes from the route's role gate.
func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) (*domain.User, error) {
	return s.Update(ctx, id, ports.UserUpdateInput{NewPassword: &newPassword})
}

// ChangeOwnPassword verifies the current password before accepting the new
// one. A wrong current password leaves the stored hash untouched.
func (s *UserService) ChangeOwnPassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if id == "" || currentPassword == "" {
		return domain.ErrInvalidArgument
	}
	if len(newPassword) < minPasswordLength {
		return domain.ErrInvalidArgument
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrUnauthorized
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.repo.Update(ctx, id, ports.UserUpdate{PasswordHash: &hash}); err != nil {
		return err
	}

	s.publish(ports.AuditEvent{Actor: user.Email, Action: domain.AuditPasswordChange, Subject: id})
	return nil
}

// Remove deletes a user. No cascading cleanup: records the user created in
// other subsystems keep their author reference.
func (s *UserService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidArgument
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !removed {
		return domain.ErrUserNotFound
	}

	s.publish(ports.AuditEvent{Action: domain.AuditUserDeleted, Subject: id})
	return nil
}

// List returns every user, hashes stripped, ordered by creation time for
// stable output (the repository itself does not guarantee an order).
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	sanitized := make([]*domain.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}
	return sanitized, nil
}

func (s *UserService) publish(event ports.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.At = time.Now().UTC()
	s.audit.Enqueue(event)
}
