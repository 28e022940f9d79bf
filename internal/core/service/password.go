package service

import (
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

// PasswordHasher wraps bcrypt behind the two operations the rest of the core
// needs: a salted one-way hash and a verification check.
type PasswordHasher struct {
	cost int
	log  zerolog.Logger
}

// NewPasswordHasher creates a hasher with the given bcrypt cost. A cost <= 0
// falls back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int, log zerolog.Logger) *PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, log: log}
}

// Hash derives a salted hash of plaintext. An empty plaintext is rejected.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domain.ErrInvalidArgument
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. A malformed
// stored hash is treated as a mismatch, never an error: the anomaly is
// logged and the caller sees a plain false.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.log.Warn().Err(err).Msg("stored password hash is malformed")
	}
	return false
}
