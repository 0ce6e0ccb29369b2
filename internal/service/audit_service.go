package service

import (
	"context"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"

	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit entries are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record appends an audit entry asynchronously (fire-and-forget). A failed
// write is logged, never surfaced: audit is a side channel, not a correctness
// dependency for the request that triggered it.
func (s *auditService) Record(ctx context.Context, entry *domain.AuditLog) {
	go func() {
		s.log.Info().
			Str("action", string(entry.Action)).
			Str("resource", entry.Resource).
			Str("request_id", entry.RequestID).
			Str("ip", entry.IPAddress).
			Msg("audit")

		if s.repo != nil {
			if err := s.repo.Create(context.Background(), entry); err != nil {
				s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit entry")
			}
		}
	}()
}
