package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentRepo_UpdateStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewShipmentRepo(mock)
	shipmentID := uuid.New()
	orderID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery("UPDATE shipments").
		WithArgs(orderID, "in_transit", "left the depot").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "order_id", "status", "rider_name", "note", "assigned_at", "updated_at",
		}).AddRow(shipmentID, orderID, "in_transit", "Rafiq", "left the depot", now, now))

	got, err := repo.UpdateStatus(context.Background(), orderID, domain.ShipmentStatusInTransit, "left the depot")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, shipmentID, got.ID)
	assert.Equal(t, domain.ShipmentStatusInTransit, got.Status)
	assert.Equal(t, "Rafiq", got.RiderName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepo_UpdateStatusNoShipment(t *testing.T) {
	mock := newMockPool(t)
	repo := NewShipmentRepo(mock)
	orderID := uuid.New()

	mock.ExpectQuery("UPDATE shipments").
		WithArgs(orderID, "delivered", "").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.UpdateStatus(context.Background(), orderID, domain.ShipmentStatusDelivered, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}
