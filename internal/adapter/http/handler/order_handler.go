package handler

import (
	"net/http"

	"github.com/F-AI-SAL/exbuy/internal/adapter/http/dto"
	"github.com/F-AI-SAL/exbuy/internal/adapter/http/middleware"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"
	"github.com/F-AI-SAL/exbuy/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderIdempotencyKey marks a write request as a retry-safe logical
// operation. Client-chosen, arbitrary format, optional.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler handles order placement endpoints.
type OrderHandler struct {
	intakeSvc ports.IntakeService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(intakeSvc ports.IntakeService) *OrderHandler {
	return &OrderHandler{intakeSvc: intakeSvc}
}

// PlaceEncrypted handles POST /api/v1/orders/place/encrypted.
//
// The success body is written verbatim from the orchestration result, so a
// replay under the same Idempotency-Key returns byte-identical content.
func (h *OrderHandler) PlaceEncrypted(c *gin.Context) {
	var req dto.EncryptedOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidEncryptedPayload())
		return
	}

	outcome, err := h.intakeSvc.PlaceEncrypted(c.Request.Context(), ports.EncryptedIntakeRequest{
		Payload:        req.Payload,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
		Meta:           requestMeta(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if outcome.Replayed {
		status = http.StatusOK
	}
	c.Data(status, "application/json", outcome.Response)
}

// Place handles POST /api/v1/orders/place (plain submissions).
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	sub := ports.OrderSubmission{
		CustomerName:  req.CustomerName,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		ShipToCountry: req.ShipToCountry,
		PaymentMethod: req.PaymentMethod,
	}
	for _, item := range req.Items {
		sub.Items = append(sub.Items, ports.SubmissionItem{
			Name:      item.Name,
			Price:     item.Price,
			Qty:       item.Qty,
			ProductNo: item.ProductNo,
			Category:  item.Category,
		})
	}

	result, err := h.intakeSvc.Place(c.Request.Context(), sub, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OrderPlacedResponse{
		OrderID:   result.OrderID,
		OrderCode: result.OrderCode,
	})
}

// requestMeta gathers request-scoped attribution for audit entries.
func requestMeta(c *gin.Context) ports.RequestMeta {
	meta := ports.RequestMeta{
		RequestID: response.GetRequestID(c),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if v, exists := c.Get(middleware.CtxActorID); exists {
		if id, ok := v.(uuid.UUID); ok {
			meta.ActorID = &id
		}
	}
	return meta
}
