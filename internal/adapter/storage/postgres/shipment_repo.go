package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ShipmentRepo implements ports.ShipmentRepository.
type ShipmentRepo struct {
	pool Pool
}

// NewShipmentRepo creates a new ShipmentRepo.
func NewShipmentRepo(pool Pool) *ShipmentRepo {
	return &ShipmentRepo{pool: pool}
}

// UpdateStatus transitions the shipment for an order and returns the updated row.
func (r *ShipmentRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.ShipmentStatus, note string) (*domain.Shipment, error) {
	s := &domain.Shipment{}
	var statusStr string
	err := r.pool.QueryRow(ctx,
		`UPDATE shipments SET status = $2, note = $3, updated_at = now()
		 WHERE order_id = $1
		 RETURNING id, order_id, status, rider_name, note, assigned_at, updated_at`,
		orderID, string(status), note).Scan(
		&s.ID, &s.OrderID, &statusStr, &s.RiderName, &s.Note, &s.AssignedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update shipment status: %w", err)
	}
	s.Status = domain.ShipmentStatus(statusStr)
	return s, nil
}
