package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ShipmentEvent is the fan-out message for a shipment state change.
type ShipmentEvent struct {
	Type    string           `json:"type"`
	Payload *domain.Shipment `json:"payload"`
}

// ShipmentServiceImpl implements ports.ShipmentService: persist the
// transition, audit it, then fan it out to live subscribers.
type ShipmentServiceImpl struct {
	shipments   ports.ShipmentRepository
	auditSvc    ports.AuditService
	broadcaster ports.Broadcaster
	group       string
	log         zerolog.Logger
}

// NewShipmentService creates a new ShipmentServiceImpl. group names the
// subscriber group that receives shipment updates.
func NewShipmentService(
	shipments ports.ShipmentRepository,
	auditSvc ports.AuditService,
	broadcaster ports.Broadcaster,
	group string,
	log zerolog.Logger,
) *ShipmentServiceImpl {
	return &ShipmentServiceImpl{
		shipments:   shipments,
		auditSvc:    auditSvc,
		broadcaster: broadcaster,
		group:       group,
		log:         log,
	}
}

// UpdateStatus transitions a shipment and notifies subscribers. Broadcast is
// best-effort: the update succeeds even if no subscriber is reachable.
func (s *ShipmentServiceImpl) UpdateStatus(ctx context.Context, req ports.ShipmentUpdateRequest) (*domain.Shipment, error) {
	shipment, err := s.shipments.UpdateStatus(ctx, req.OrderID, req.Status, req.Note)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update shipment: %w", err))
	}
	if shipment == nil {
		return nil, apperror.ErrNotFound("shipment")
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"status": string(shipment.Status),
		"note":   req.Note,
	})
	s.auditSvc.Record(ctx, &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionShipmentUpdate,
		Resource:  "shipment:" + shipment.ID.String(),
		RequestID: req.Meta.RequestID,
		ActorID:   req.Meta.ActorID,
		IPAddress: req.Meta.ClientIP,
		UserAgent: req.Meta.UserAgent,
		Metadata:  string(metadata),
		CreatedAt: time.Now().UTC(),
	})

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(s.group, ShipmentEvent{Type: "shipment_update", Payload: shipment})
	}

	return shipment, nil
}
