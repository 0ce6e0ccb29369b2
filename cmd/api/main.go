package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/F-AI-SAL/exbuy/config"
	httpHandler "github.com/F-AI-SAL/exbuy/internal/adapter/http/handler"
	pgStorage "github.com/F-AI-SAL/exbuy/internal/adapter/storage/postgres"
	redisStorage "github.com/F-AI-SAL/exbuy/internal/adapter/storage/redis"
	"github.com/F-AI-SAL/exbuy/internal/adapter/ws"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/internal/service"
	"github.com/F-AI-SAL/exbuy/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting ExBuy boundary core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	orderRepo := pgStorage.NewOrderRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)
	shipmentRepo := pgStorage.NewShipmentRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	snapshotCache := redisStorage.NewSnapshotCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	decryptor, err := service.NewRSAPayloadDecryptor(cfg.Crypto)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize payload decryptor")
	}
	if !decryptor.HasKey() {
		log.Warn().Msg("No order decryption key configured, encrypted intake will fail closed")
	}

	auditSvc := service.NewAuditService(auditRepo, log)
	guard := service.NewIdempotencyGuard(idempotencyCache, cfg.Intake.ClaimTTL, cfg.Intake.IdempotencyTTL, log)
	intakeSvc := service.NewIntakeService(orderRepo, decryptor, guard, auditSvc, log)
	snapshotSvc := service.NewSnapshotService(productRepo, snapshotCache, cfg.Catalog.SnapshotTTL, log)

	// Notification hub + shipment fan-out
	hub := ws.NewHub(log)
	shipmentSvc := service.NewShipmentService(shipmentRepo, auditSvc, hub, ws.DefaultGroup, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		IntakeSvc:      intakeSvc,
		SnapshotSvc:    snapshotSvc,
		ShipmentSvc:    shipmentSvc,
		AuditSvc:       auditSvc,
		Hub:            hub,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
