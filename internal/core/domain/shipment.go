package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShipmentStatus is the delivery state of an order shipment.
type ShipmentStatus string

const (
	ShipmentStatusAssigned  ShipmentStatus = "assigned"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusFailed    ShipmentStatus = "failed"
)

// Shipment tracks delivery progress for one order.
type Shipment struct {
	ID         uuid.UUID      `json:"id"`
	OrderID    uuid.UUID      `json:"order_id"`
	Status     ShipmentStatus `json:"status"`
	RiderName  string         `json:"rider_name,omitempty"`
	Note       string         `json:"note,omitempty"`
	AssignedAt time.Time      `json:"assigned_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
