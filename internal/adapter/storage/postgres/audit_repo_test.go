package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAuditRepo(mock)
	actorID := uuid.New()
	entry := &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionOrderCreate,
		Resource:  "order:abc",
		RequestID: "req-1",
		ActorID:   &actorID,
		IPAddress: "10.0.0.1",
		UserAgent: "curl/8.0",
		Metadata:  `{"order_code":"EXB-ABC"}`,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, "order.create", entry.Resource, entry.RequestID,
			entry.ActorID, entry.IPAddress, entry.UserAgent, entry.Metadata, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_CreateAnonymousActor(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAuditRepo(mock)
	entry := &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionProductView,
		Resource:  "product:blue-mug",
		RequestID: "req-2",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, "product.view", entry.Resource, entry.RequestID,
			(*uuid.UUID)(nil), "", "", "", entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_CreateFailure(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAuditRepo(mock)

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(errors.New("disk full"))

	err := repo.Create(context.Background(), &domain.AuditLog{ID: uuid.New()})
	assert.Error(t, err)
}
