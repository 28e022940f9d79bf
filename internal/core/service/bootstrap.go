package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

// BootstrapService seeds a default super-admin when the directory is empty.
// Safe to call on every process start: a populated directory makes it a no-op.
type BootstrapService struct {
	repo     ports.UserRepository
	hasher   *PasswordHasher
	audit    ports.AuditSink
	email    string
	password string
	log      zerolog.Logger
}

func NewBootstrapService(repo ports.UserRepository, hasher *PasswordHasher, audit ports.AuditSink, email, password string, log zerolog.Logger) *BootstrapService {
	return &BootstrapService{
		repo:     repo,
		hasher:   hasher,
		audit:    audit,
		email:    email,
		password: password,
		log:      log,
	}
}

// EnsureDefaultAdmin inserts the default administrator if and only if the
// directory holds no users. A Conflict from the unique index means another
// instance won the startup race, which is equivalent to success.
func (s *BootstrapService) EnsureDefaultAdmin(ctx context.Context) error {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap list: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	password := s.password
	if password == "" {
		password, err = generatePassword()
		if err != nil {
			return fmt.Errorf("bootstrap password: %w", err)
		}
		s.log.Warn().
			Str("email", s.email).
			Str("password", password).
			Msg("no ADMIN_PASSWORD configured, generated an initial one; change it after first login")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("bootstrap hash: %w", err)
	}

	admin := &domain.User{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Email:        s.email,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.repo.Insert(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("bootstrap insert: %w", err)
	}

	s.log.Info().Str("email", s.email).Msg("default administrator created")
	if s.audit != nil {
		s.audit.Enqueue(ports.AuditEvent{Actor: s.email, Action: domain.AuditBootstrapRun, At: time.Now().UTC()})
	}
	return nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
