package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/glamora/backoffice-system/internal/core/ports"
)

// AuditTrailService persists authentication audit events. It runs behind the
// queue dispatcher, off the request path.
type AuditTrailService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditTrailService(repo ports.AuditRepository, log zerolog.Logger) *AuditTrailService {
	return &AuditTrailService{repo: repo, log: log}
}

func (s *AuditTrailService) Record(ctx context.Context, event ports.AuditEvent) error {
	if event.Action == "" {
		return nil
	}
	if err := s.repo.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries of the trail, up to limit.
func (s *AuditTrailService) ListRecent(ctx context.Context, limit int) ([]ports.AuditEvent, error) {
	return s.repo.ListRecent(ctx, limit)
}
