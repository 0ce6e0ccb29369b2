package ports

import (
	"context"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for orders. Intake only
// writes; order detail reads live outside this system.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
}

// ProductRepository defines read access to the product catalog.
type ProductRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

// ShipmentRepository defines persistence operations for shipments.
type ShipmentRepository interface {
	// UpdateStatus transitions the shipment for an order and returns the
	// updated row. Returns nil, nil when no shipment exists for the order.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.ShipmentStatus, note string) (*domain.Shipment, error)
}

// AuditRepository defines append-only persistence for audit entries.
// Deliberately no update or delete: the trail is immutable.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}
