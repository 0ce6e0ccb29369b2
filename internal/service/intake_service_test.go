package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOrderRepo struct {
	mu     sync.Mutex
	orders []*domain.Order
	fail   error
}

func (r *memOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.orders = append(r.orders, order)
	return nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (a *recordingAudit) Record(_ context.Context, entry *domain.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *recordingAudit) last() *domain.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		return nil
	}
	return a.entries[len(a.entries)-1]
}

type intakeFixture struct {
	svc     *IntakeServiceImpl
	repo    *memOrderRepo
	audit   *recordingAudit
	cache   *memIdempotencyCache
	encrypt func(t *testing.T, sub *ports.OrderSubmission) string
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()
	key := generateTestKey(t)
	decryptor := newTestDecryptor(t, key)
	repo := &memOrderRepo{}
	audit := &recordingAudit{}
	cache := newMemIdempotencyCache()
	guard := newTestGuard(cache)

	return &intakeFixture{
		svc:   NewIntakeService(repo, decryptor, guard, audit, zerolog.Nop()),
		repo:  repo,
		audit: audit,
		cache: cache,
		encrypt: func(t *testing.T, sub *ports.OrderSubmission) string {
			t.Helper()
			ciphertext, err := EncryptOrderPayload(sub, &key.PublicKey)
			require.NoError(t, err)
			return ciphertext
		},
	}
}

func validSubmission() ports.OrderSubmission {
	return ports.OrderSubmission{
		CustomerName:  "Karim",
		Address:       "45 Green Road",
		City:          "Chattogram",
		PostalCode:    "4000",
		ShipToCountry: "Bangladesh",
		PaymentMethod: "cash",
		Items: []ports.SubmissionItem{
			{Name: "Mug", Price: 350, Qty: 2},
			{Name: "Coaster", Price: 100, Qty: 4},
		},
	}
}

func TestIntakeService_Place(t *testing.T) {
	f := newIntakeFixture(t)
	sub := validSubmission()

	result, err := f.svc.Place(context.Background(), sub, ports.RequestMeta{RequestID: "req-1", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, 1, f.repo.count())

	order := f.repo.orders[0]
	assert.Equal(t, order.ID.String(), result.OrderID)
	assert.Equal(t, order.Code, result.OrderCode)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentMethodCash, order.PaymentMethod)
	assert.Equal(t, int64(2*350+4*100), order.Total)
	assert.Len(t, order.Items, 2)

	entry := f.audit.last()
	require.NotNil(t, entry)
	assert.Equal(t, domain.AuditActionOrderCreate, entry.Action)
	assert.Equal(t, "order:"+order.ID.String(), entry.Resource)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
}

func TestIntakeService_PlaceDefaultsPaymentMethod(t *testing.T) {
	f := newIntakeFixture(t)
	sub := validSubmission()
	sub.PaymentMethod = ""

	_, err := f.svc.Place(context.Background(), sub, ports.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodCash, f.repo.orders[0].PaymentMethod)
}

func TestIntakeService_PlaceValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.OrderSubmission)
	}{
		{"missing address", func(s *ports.OrderSubmission) { s.Address = "" }},
		{"no items", func(s *ports.OrderSubmission) { s.Items = nil }},
		{"item without name", func(s *ports.OrderSubmission) { s.Items[0].Name = "" }},
		{"zero qty", func(s *ports.OrderSubmission) { s.Items[0].Qty = 0 }},
		{"negative price", func(s *ports.OrderSubmission) { s.Items[0].Price = -1 }},
		{"unknown payment method", func(s *ports.OrderSubmission) { s.PaymentMethod = "cheque" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newIntakeFixture(t)
			sub := validSubmission()
			tc.mutate(&sub)

			_, err := f.svc.Place(context.Background(), sub, ports.RequestMeta{})
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "ORD_003", appErr.Code)
			assert.Equal(t, 0, f.repo.count())
		})
	}
}

func TestIntakeService_PlaceRepoFailure(t *testing.T) {
	f := newIntakeFixture(t)
	f.repo.fail = errors.New("connection refused")

	_, err := f.svc.Place(context.Background(), validSubmission(), ports.RequestMeta{})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SYS_001", appErr.Code)
	assert.Nil(t, f.audit.last(), "failed placement must not be audited")
}

func TestIntakeService_PlaceEncrypted(t *testing.T) {
	f := newIntakeFixture(t)
	sub := validSubmission()
	req := ports.EncryptedIntakeRequest{
		Payload:        f.encrypt(t, &sub),
		IdempotencyKey: "client-key-1",
	}
	ctx := context.Background()

	outcome, err := f.svc.PlaceEncrypted(ctx, req)
	require.NoError(t, err)
	assert.False(t, outcome.Replayed)
	require.Equal(t, 1, f.repo.count())

	var result domain.IntakeResult
	require.NoError(t, json.Unmarshal(outcome.Response, &result))
	assert.Equal(t, f.repo.orders[0].ID.String(), result.OrderID)
	assert.Equal(t, f.repo.orders[0].Code, result.OrderCode)
}

func TestIntakeService_PlaceEncryptedReplayIsByteIdentical(t *testing.T) {
	f := newIntakeFixture(t)
	sub := validSubmission()
	req := ports.EncryptedIntakeRequest{
		Payload:        f.encrypt(t, &sub),
		IdempotencyKey: "client-key-1",
	}
	ctx := context.Background()

	first, err := f.svc.PlaceEncrypted(ctx, req)
	require.NoError(t, err)

	second, err := f.svc.PlaceEncrypted(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, 1, f.repo.count(), "replay must not create a second order")
}

func TestIntakeService_PlaceEncryptedInFlightConflict(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()

	// Simulate another orchestration holding the key.
	won, err := f.cache.SetNX(ctx, "busy-key", pendingSentinel, 0)
	require.NoError(t, err)
	require.True(t, won)

	sub := validSubmission()
	_, err = f.svc.PlaceEncrypted(ctx, ports.EncryptedIntakeRequest{
		Payload:        f.encrypt(t, &sub),
		IdempotencyKey: "busy-key",
	})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ORD_002", appErr.Code)
	assert.Equal(t, 0, f.repo.count())
}

func TestIntakeService_PlaceEncryptedBadPayloadReleasesClaim(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()
	req := ports.EncryptedIntakeRequest{Payload: "not-even-base64!!!", IdempotencyKey: "key-x"}

	_, err := f.svc.PlaceEncrypted(ctx, req)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ORD_001", appErr.Code)

	// The failed attempt must not pin the key: a corrected retry goes through.
	sub := validSubmission()
	req.Payload = f.encrypt(t, &sub)
	outcome, err := f.svc.PlaceEncrypted(ctx, req)
	require.NoError(t, err)
	assert.False(t, outcome.Replayed)
	assert.Equal(t, 1, f.repo.count())
}

func TestIntakeService_PlaceEncryptedRepoFailureReleasesClaim(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()
	sub := validSubmission()
	req := ports.EncryptedIntakeRequest{Payload: f.encrypt(t, &sub), IdempotencyKey: "key-y"}

	f.repo.fail = errors.New("db down")
	_, err := f.svc.PlaceEncrypted(ctx, req)
	require.Error(t, err)

	f.repo.fail = nil
	outcome, err := f.svc.PlaceEncrypted(ctx, req)
	require.NoError(t, err)
	assert.False(t, outcome.Replayed)
}

func TestIntakeService_PlaceEncryptedWithoutKeySkipsGuard(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()
	sub := validSubmission()
	req := ports.EncryptedIntakeRequest{Payload: f.encrypt(t, &sub)}

	first, err := f.svc.PlaceEncrypted(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.PlaceEncrypted(ctx, req)
	require.NoError(t, err)

	assert.False(t, first.Replayed)
	assert.False(t, second.Replayed)
	assert.Equal(t, 2, f.repo.count(), "keyless submissions are all treated as new")
}
