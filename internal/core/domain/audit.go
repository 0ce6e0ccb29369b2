package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionOrderCreate    AuditAction = "order.create"
	AuditActionProductView    AuditAction = "product.view"
	AuditActionShipmentUpdate AuditAction = "shipment.update"
)

// AuditLog records a single audited action. Entries are append-only: the
// repository exposes no update or delete.
type AuditLog struct {
	ID        uuid.UUID   `json:"id"`
	Action    AuditAction `json:"action"`
	Resource  string      `json:"resource"` // e.g. "order:<uuid>", "product:<slug>"
	RequestID string      `json:"request_id"`
	ActorID   *uuid.UUID  `json:"actor_id,omitempty"` // nil for anonymous callers
	IPAddress string      `json:"ip_address"`
	UserAgent string      `json:"user_agent"`
	Metadata  string      `json:"metadata,omitempty"` // JSON string
	CreatedAt time.Time   `json:"created_at"`
}
