package postgres

import (
	"context"
	"fmt"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository. Inserts only: the audit trail
// is append-only and entries are never updated or deleted.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends one audit entry.
func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, action, resource, request_id, actor_id, ip_address, user_agent, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, string(entry.Action), entry.Resource, entry.RequestID,
		entry.ActorID, entry.IPAddress, entry.UserAgent, entry.Metadata, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
