package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

func newTestBootstrap(repo *stubUserRepo, password string) *BootstrapService {
	hasher := NewPasswordHasher(bcrypt.MinCost, zerolog.Nop())
	return NewBootstrapService(repo, hasher, nil, testAdminEmail, password, zerolog.Nop())
}

func TestBootstrap_SeedsEmptyDirectory(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestBootstrap(repo, "bootpass")

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	admin, err := repo.FindByEmail(context.Background(), testAdminEmail)
	if err != nil {
		t.Fatalf("default admin not inserted: %v", err)
	}
	if admin.Role != domain.RoleSuperAdmin {
		t.Fatalf("default admin role = %s, want super_admin", admin.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("bootpass")); err != nil {
		t.Fatalf("configured password does not verify: %v", err)
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestBootstrap(repo, "bootpass")
	ctx := context.Background()

	if err := svc.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := svc.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}

	users, _ := repo.ListAll(ctx)
	if len(users) != 1 {
		t.Fatalf("repeated bootstrap created %d users, want 1", len(users))
	}
}

func TestBootstrap_NoopOnPopulatedDirectory(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "someone@x.com", "secret1", domain.RoleContentWriter)
	svc := newTestBootstrap(repo, "bootpass")

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), testAdminEmail); err == nil {
		t.Fatalf("bootstrap inserted an admin into a non-empty directory")
	}
}

func TestBootstrap_GeneratesPasswordWhenUnconfigured(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestBootstrap(repo, "")

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	admin, err := repo.FindByEmail(context.Background(), testAdminEmail)
	if err != nil {
		t.Fatalf("default admin not inserted: %v", err)
	}
	if admin.PasswordHash == "" {
		t.Fatalf("generated password was not hashed and stored")
	}
}

func TestBootstrap_StartupRaceConflictIsSuccess(t *testing.T) {
	repo := newStubUserRepo()
	// Another instance inserts the admin between ListAll and Insert.
	raced := &racingRepo{stubUserRepo: repo}
	hasher := NewPasswordHasher(bcrypt.MinCost, zerolog.Nop())
	svc := NewBootstrapService(raced, hasher, nil, testAdminEmail, "bootpass", zerolog.Nop())

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("conflict from a lost startup race must not surface: %v", err)
	}
}

// racingRepo reports an empty directory but rejects the insert with a
// conflict, simulating a concurrent instance winning the startup race.
type racingRepo struct {
	*stubUserRepo
}

func (r *racingRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	return nil, nil
}

func (r *racingRepo) Insert(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, domain.ErrEmailTaken
}
