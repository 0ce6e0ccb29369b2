package handler

import (
	"github.com/F-AI-SAL/exbuy/internal/adapter/http/dto"
	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"
	"github.com/F-AI-SAL/exbuy/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShipmentHandler handles shipment transition endpoints.
type ShipmentHandler struct {
	shipmentSvc ports.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipmentSvc ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentSvc: shipmentSvc}
}

// UpdateStatus handles POST /api/v1/shipments/:order_id/status. A successful
// transition is fanned out to all live shipment subscribers.
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	var req dto.ShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	shipment, err := h.shipmentSvc.UpdateStatus(c.Request.Context(), ports.ShipmentUpdateRequest{
		OrderID: orderID,
		Status:  domain.ShipmentStatus(req.Status),
		Note:    req.Note,
		Meta:    requestMeta(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, shipment)
}
