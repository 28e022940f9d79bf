package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

const sessionTTL = 24 * time.Hour

// SessionCache keeps the sanitized profile written at login, keyed by
// session id. Key format: session:<id>. Entries expire on their own; logout
// removes them early.
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// Save stores the sanitized profile under the session id.
func (s *SessionCache) Save(ctx context.Context, sessionID string, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session profile: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, sessionTTL).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Get returns the cached profile, or domain.ErrUserNotFound when the session
// id is unknown or expired.
func (s *SessionCache) Get(ctx context.Context, sessionID string) (*domain.User, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("decode session profile: %w", err)
	}
	return &user, nil
}

// Delete discards the cached profile. Deleting an absent session is not an
// error.
func (s *SessionCache) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionCache) key(sessionID string) string {
	return "session:" + sessionID
}
