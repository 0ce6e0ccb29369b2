package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memShipmentRepo struct {
	shipment *domain.Shipment
	fail     error
}

func (r *memShipmentRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status domain.ShipmentStatus, note string) (*domain.Shipment, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	if r.shipment == nil || r.shipment.OrderID != orderID {
		return nil, nil
	}
	r.shipment.Status = status
	r.shipment.Note = note
	r.shipment.UpdatedAt = time.Now().UTC()
	return r.shipment, nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	groups []string
	events []interface{}
}

func (b *recordingBroadcaster) Broadcast(group string, event interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.groups = append(b.groups, group)
	b.events = append(b.events, event)
}

func TestShipmentService_UpdateStatus(t *testing.T) {
	orderID := uuid.New()
	repo := &memShipmentRepo{shipment: &domain.Shipment{
		ID:      uuid.New(),
		OrderID: orderID,
		Status:  domain.ShipmentStatusAssigned,
	}}
	audit := &recordingAudit{}
	broadcaster := &recordingBroadcaster{}
	svc := NewShipmentService(repo, audit, broadcaster, "shipments_stream", zerolog.Nop())

	shipment, err := svc.UpdateStatus(context.Background(), ports.ShipmentUpdateRequest{
		OrderID: orderID,
		Status:  domain.ShipmentStatusInTransit,
		Note:    "left the depot",
		Meta:    ports.RequestMeta{RequestID: "req-9"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentStatusInTransit, shipment.Status)
	assert.Equal(t, "left the depot", shipment.Note)

	entry := audit.last()
	require.NotNil(t, entry)
	assert.Equal(t, domain.AuditActionShipmentUpdate, entry.Action)
	assert.Equal(t, "shipment:"+shipment.ID.String(), entry.Resource)

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, "shipments_stream", broadcaster.groups[0])
	event, ok := broadcaster.events[0].(ShipmentEvent)
	require.True(t, ok)
	assert.Equal(t, "shipment_update", event.Type)
	assert.Equal(t, shipment, event.Payload)
}

func TestShipmentService_UpdateStatusNotFound(t *testing.T) {
	repo := &memShipmentRepo{}
	broadcaster := &recordingBroadcaster{}
	svc := NewShipmentService(repo, &recordingAudit{}, broadcaster, "shipments_stream", zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), ports.ShipmentUpdateRequest{
		OrderID: uuid.New(),
		Status:  domain.ShipmentStatusDelivered,
	})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "RES_001", appErr.Code)
	assert.Empty(t, broadcaster.events, "nothing is fanned out on a failed transition")
}

func TestShipmentService_UpdateStatusRepoFailure(t *testing.T) {
	repo := &memShipmentRepo{fail: errors.New("db down")}
	svc := NewShipmentService(repo, &recordingAudit{}, &recordingBroadcaster{}, "shipments_stream", zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), ports.ShipmentUpdateRequest{OrderID: uuid.New(), Status: domain.ShipmentStatusFailed})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestShipmentService_NilBroadcaster(t *testing.T) {
	orderID := uuid.New()
	repo := &memShipmentRepo{shipment: &domain.Shipment{ID: uuid.New(), OrderID: orderID}}
	svc := NewShipmentService(repo, &recordingAudit{}, nil, "shipments_stream", zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), ports.ShipmentUpdateRequest{
		OrderID: orderID,
		Status:  domain.ShipmentStatusDelivered,
	})
	assert.NoError(t, err)
}
