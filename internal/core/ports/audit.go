package ports

import (
	"context"
	"time"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

// AuditEvent is one entry in the authentication audit trail.
type AuditEvent struct {
	Actor   string             // email of the account the action concerns
	Action  domain.AuditAction
	Subject string             // affected user id, when distinct from the actor
	Detail  string
	At      time.Time
}

// AuditService persists audit events. Invoked by the queue dispatcher off the
// request path; a failure here never fails the originating operation.
type AuditService interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditReader exposes the audit trail to the administrative read surface.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]AuditEvent, error)
}

// AuditRepository is the persistence port for the append-only audit trail.
type AuditRepository interface {
	Append(ctx context.Context, event AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]AuditEvent, error)
}

// AuditSink is the fire-and-forget side services publish to. The queue
// dispatcher implements it; services treat a nil sink as "auditing disabled".
type AuditSink interface {
	Enqueue(event AuditEvent)
}
