package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/glamora/backoffice-system/internal/core/domain"
	"github.com/glamora/backoffice-system/internal/core/guard"
	"github.com/glamora/backoffice-system/internal/core/ports"
)

// stubUserRepo is an in-memory directory that mirrors the storage-layer
// contract, including the atomic uniqueness check under its mutex.
type stubUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.LastLogin != nil {
		ts := *u.LastLogin
		clone.LastLogin = &ts
	}
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.LastLogin != nil {
		ts := *update.LastLogin
		u.LastLogin = &ts
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *stubUserRepo) storedHash(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u.PasswordHash
	}
	return ""
}

func (r *stubUserRepo) storedRole(id string) domain.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u.Role
	}
	return ""
}

const testAdminEmail = "admin@glamora.com"

func newTestAuthService(repo *stubUserRepo) *AuthService {
	hasher := NewPasswordHasher(bcrypt.MinCost, zerolog.Nop())
	return NewAuthService(repo, hasher, nil, nil, nil, "secret", time.Hour, testAdminEmail, zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hasher := NewPasswordHasher(bcrypt.MinCost, zerolog.Nop())
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("seed hash: %v", err)
	}
	user := &domain.User{
		ID:           "id-" + email,
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := repo.Insert(context.Background(), user); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "jane@x.com", "secret1", domain.RoleContentWriter)
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), "jane@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User == nil || result.User.Email != "jane@x.com" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if result.User.PasswordHash != "" {
		t.Fatalf("password hash leaked across the service boundary")
	}
	if result.User.LastLogin == nil {
		t.Fatalf("last_login not populated on successful login")
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleContentWriter) {
		t.Fatalf("unexpected role claim: %v", claims["role"])
	}
}

func TestAuthService_Login_UniformError(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "jane@x.com", "secret1", domain.RoleContentWriter)
	svc := newTestAuthService(repo)

	_, unknownErr := svc.Login(context.Background(), "nobody@x.com", "secret1")
	_, wrongErr := svc.Login(context.Background(), "jane@x.com", "wrong")

	// Both failure causes must return the one shared sentinel so a caller
	// cannot probe which emails exist.
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages diverge: %q vs %q", unknownErr, wrongErr)
	}
}

func TestAuthService_Login_LegacyAdminAlias(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, testAdminEmail, "bootpass", domain.RoleSuperAdmin)
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), "admin", "bootpass")
	if err != nil {
		t.Fatalf("alias login failed: %v", err)
	}
	if result.User.Email != testAdminEmail {
		t.Fatalf("alias resolved to %q, want %q", result.User.Email, testAdminEmail)
	}
}

func TestAuthService_Login_LastLoginWriteIsBestEffort(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "jane@x.com", "secret1", domain.RoleAdmin)
	repo.updateErr = errors.New("storage down")
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), "jane@x.com", "secret1")
	if err != nil {
		t.Fatalf("login must succeed despite a failed last_login write, got %v", err)
	}
	if result.User == nil {
		t.Fatalf("expected user in result")
	}
}

// stubSessionCache is an in-memory stand-in for the redis-backed cache.
type stubSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*domain.User
}

func newStubSessionCache() *stubSessionCache {
	return &stubSessionCache{sessions: make(map[string]*domain.User)}
}

func (c *stubSessionCache) Save(_ context.Context, sessionID string, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[sessionID] = cloneUser(user)
	return nil
}

func (c *stubSessionCache) Get(_ context.Context, sessionID string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.sessions[sessionID]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (c *stubSessionCache) Delete(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
	return nil
}

func TestAuthService_VerifySession(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "jane@x.com", "secret1", domain.RoleAdmin)
	sessions := newStubSessionCache()
	hasher := NewPasswordHasher(bcrypt.MinCost, zerolog.Nop())
	verifier := guard.New(guard.WithMinimumLatency(time.Millisecond))
	svc := NewAuthService(repo, hasher, sessions, nil, verifier, "secret", time.Hour, testAdminEmail, zerolog.Nop())

	result, err := svc.Login(context.Background(), "jane@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	ctx := context.Background()

	// Live session, matching role.
	outcome, err := svc.VerifySession(ctx, result.SessionID, []domain.Role{domain.RoleAdmin})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if outcome != guard.OutcomeAuthorized {
		t.Fatalf("got %v, want authorized", outcome)
	}

	// Live session, role outside the required set.
	outcome, err = svc.VerifySession(ctx, result.SessionID, []domain.Role{domain.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if outcome != guard.OutcomeRedirectForbidden {
		t.Fatalf("got %v, want redirect_forbidden", outcome)
	}

	// Discarded session routes back to login.
	if err := svc.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	outcome, err = svc.VerifySession(ctx, result.SessionID, nil)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if outcome != guard.OutcomeRedirectLogin {
		t.Fatalf("got %v, want redirect_login", outcome)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "", "secret1"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "jane@x.com", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
