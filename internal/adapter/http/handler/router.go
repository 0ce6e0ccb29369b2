package handler

import (
	"github.com/F-AI-SAL/exbuy/internal/adapter/http/middleware"
	redisStore "github.com/F-AI-SAL/exbuy/internal/adapter/storage/redis"
	"github.com/F-AI-SAL/exbuy/internal/adapter/ws"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	IntakeSvc      ports.IntakeService
	SnapshotSvc    ports.SnapshotService
	ShipmentSvc    ports.ShipmentService
	AuditSvc       ports.AuditService
	Hub            *ws.Hub
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	JWTSecret      string // empty = actor attribution disabled
	JWTIssuer      string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	r.Use(middleware.BearerActor(deps.JWTSecret, deps.JWTIssuer, deps.Logger))

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	orderHandler := NewOrderHandler(deps.IntakeSvc)
	orders := v1.Group("/orders")
	{
		orders.POST("/place", rl("orders_place"), orderHandler.Place)
		orders.POST("/place/encrypted", rl("orders_place"), orderHandler.PlaceEncrypted)
	}

	productHandler := NewProductHandler(deps.SnapshotSvc, deps.AuditSvc)
	v1.GET("/products/:slug", rl("product_detail"), productHandler.GetProduct)

	if deps.ShipmentSvc != nil {
		shipmentHandler := NewShipmentHandler(deps.ShipmentSvc)
		v1.POST("/shipments/:order_id/status", rl("shipment_update"), shipmentHandler.UpdateStatus)
	}

	// Live shipment stream
	if deps.Hub != nil {
		r.GET("/ws/shipments", ws.Handler(deps.Hub, deps.Logger))
	}

	return r
}
