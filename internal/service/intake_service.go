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

// IntakeServiceImpl implements ports.IntakeService.
//
// State machine per submission: claim -> decrypt -> validate -> persist ->
// audit -> commit. Every path reaches a terminal state; nothing is left
// pending across requests.
type IntakeServiceImpl struct {
	orderRepo ports.OrderRepository
	decryptor ports.PayloadDecryptor
	guard     ports.IdempotencyGuard
	auditSvc  ports.AuditService
	log       zerolog.Logger
}

// NewIntakeService creates a new IntakeServiceImpl.
func NewIntakeService(
	orderRepo ports.OrderRepository,
	decryptor ports.PayloadDecryptor,
	guard ports.IdempotencyGuard,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *IntakeServiceImpl {
	return &IntakeServiceImpl{
		orderRepo: orderRepo,
		decryptor: decryptor,
		guard:     guard,
		auditSvc:  auditSvc,
		log:       log,
	}
}

// PlaceEncrypted runs the full intake orchestration for an encrypted
// submission. A replayed idempotency key short-circuits before decryption:
// retried requests never re-run side effects.
func (s *IntakeServiceImpl) PlaceEncrypted(ctx context.Context, req ports.EncryptedIntakeRequest) (*ports.IntakeOutcome, error) {
	status, cached, err := s.guard.Claim(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("idempotency claim: %w", err))
	}
	switch status {
	case domain.ClaimHit:
		s.log.Debug().Str("key", req.IdempotencyKey).Msg("idempotent replay served from cache")
		return &ports.IntakeOutcome{Response: cached, Replayed: true}, nil
	case domain.ClaimInFlight:
		return nil, apperror.ErrDuplicateInFlight()
	}

	sub, err := s.decryptor.Decrypt(req.Payload)
	if err != nil {
		s.guard.Release(ctx, req.IdempotencyKey)
		return nil, err
	}

	result, err := s.Place(ctx, *sub, req.Meta)
	if err != nil {
		s.guard.Release(ctx, req.IdempotencyKey)
		return nil, err
	}

	body, err := json.Marshal(result)
	if err != nil {
		s.guard.Release(ctx, req.IdempotencyKey)
		return nil, apperror.InternalError(fmt.Errorf("encoding intake result: %w", err))
	}

	if err := s.guard.Commit(ctx, req.IdempotencyKey, body); err != nil {
		// The order is placed; a failed commit only costs replay protection.
		s.log.Warn().Err(err).Str("key", req.IdempotencyKey).Msg("idempotency commit failed")
	}

	return &ports.IntakeOutcome{Response: body}, nil
}

// Place validates and persists a submission, then records the audit entry.
// Shared tail of the encrypted and plain placement paths.
func (s *IntakeServiceImpl) Place(ctx context.Context, sub ports.OrderSubmission, meta ports.RequestMeta) (*domain.IntakeResult, error) {
	if err := validateSubmission(&sub); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New(),
		CustomerName:  sub.CustomerName,
		Address:       sub.Address,
		City:          sub.City,
		PostalCode:    sub.PostalCode,
		ShipToCountry: sub.ShipToCountry,
		PaymentMethod: paymentMethodOrDefault(sub.PaymentMethod),
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.Code = domain.NewOrderCode(order.ID)
	for _, item := range sub.Items {
		order.Items = append(order.Items, domain.OrderItem{
			Name:      item.Name,
			Price:     item.Price,
			Qty:       item.Qty,
			ProductNo: item.ProductNo,
			Category:  item.Category,
		})
		order.Total += item.Price * int64(item.Qty)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create order: %w", err))
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"order_code": order.Code,
		"items":      len(order.Items),
		"total":      order.Total,
	})
	s.auditSvc.Record(ctx, &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionOrderCreate,
		Resource:  "order:" + order.ID.String(),
		RequestID: meta.RequestID,
		ActorID:   meta.ActorID,
		IPAddress: meta.ClientIP,
		UserAgent: meta.UserAgent,
		Metadata:  string(metadata),
		CreatedAt: now,
	})

	return &domain.IntakeResult{OrderID: order.ID.String(), OrderCode: order.Code}, nil
}

func validateSubmission(sub *ports.OrderSubmission) error {
	if sub.Address == "" {
		return apperror.Validation("address is required")
	}
	if len(sub.Items) == 0 {
		return apperror.Validation("order must contain at least one item")
	}
	for _, item := range sub.Items {
		if item.Name == "" {
			return apperror.Validation("item name is required")
		}
		if item.Qty < 1 {
			return apperror.Validation("item qty must be at least 1")
		}
		if item.Price < 0 {
			return apperror.Validation("item price must be non-negative")
		}
	}
	if sub.PaymentMethod != "" {
		switch domain.PaymentMethod(sub.PaymentMethod) {
		case domain.PaymentMethodCash, domain.PaymentMethodCard, domain.PaymentMethodBkash, domain.PaymentMethodNagad:
		default:
			return apperror.Validation("unsupported payment method")
		}
	}
	return nil
}

func paymentMethodOrDefault(m string) domain.PaymentMethod {
	if m == "" {
		return domain.PaymentMethodCash
	}
	return domain.PaymentMethod(m)
}
