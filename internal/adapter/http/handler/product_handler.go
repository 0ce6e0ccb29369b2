package handler

import (
	"net/http"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler serves product snapshots under conditional-request
// semantics.
type ProductHandler struct {
	snapshotSvc ports.SnapshotService
	auditSvc    ports.AuditService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(snapshotSvc ports.SnapshotService, auditSvc ports.AuditService) *ProductHandler {
	return &ProductHandler{snapshotSvc: snapshotSvc, auditSvc: auditSvc}
}

// GetProduct handles GET /api/v1/products/:slug.
//
// An exact match on either If-None-Match (against the snapshot fingerprint)
// or If-Modified-Since (against the snapshot timestamp) short-circuits to
// 304 with no body. Full responses are audited as read events.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	snap, err := h.snapshotSvc.Get(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	lastModified := snap.LastModified.UTC().Format(http.TimeFormat)

	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == snap.ETag {
		c.Status(http.StatusNotModified)
		return
	}
	if ims := c.GetHeader("If-Modified-Since"); ims != "" && ims == lastModified {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", snap.ETag)
	c.Header("Last-Modified", lastModified)

	if h.auditSvc != nil {
		meta := requestMeta(c)
		h.auditSvc.Record(c.Request.Context(), &domain.AuditLog{
			ID:        uuid.New(),
			Action:    domain.AuditActionProductView,
			Resource:  "product:" + slug,
			RequestID: meta.RequestID,
			ActorID:   meta.ActorID,
			IPAddress: meta.ClientIP,
			UserAgent: meta.UserAgent,
			Metadata:  `{"slug":"` + slug + `"}`,
			CreatedAt: time.Now().UTC(),
		})
	}

	c.Data(http.StatusOK, "application/json", snap.Body)
}
