package ports

import "context"

// BootstrapService seeds the default administrator into an empty directory.
// Idempotent: invoking it against a populated directory is a no-op.
type BootstrapService interface {
	EnsureDefaultAdmin(ctx context.Context) error
}
