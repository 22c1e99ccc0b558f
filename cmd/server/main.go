package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mfgapp "github.com/erp/fulfillment/internal/application/manufacturing"
	orderapp "github.com/erp/fulfillment/internal/application/order"
	"github.com/erp/fulfillment/internal/infrastructure/audit"
	"github.com/erp/fulfillment/internal/infrastructure/auth"
	"github.com/erp/fulfillment/internal/infrastructure/cache"
	"github.com/erp/fulfillment/internal/infrastructure/config"
	"github.com/erp/fulfillment/internal/infrastructure/event"
	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/infrastructure/persistence"
	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/erp/fulfillment/internal/interfaces/http/handler"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting fulfillment service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Initialize tracing (no-op when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		SpanProfiles:      cfg.Telemetry.SpanProfiles,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing (otelgorm + slow query callbacks)
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	approvalRepo := persistence.NewGormApprovalRecordRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	consumptionRepo := persistence.NewGormConsumptionRecordRepository(db.DB)

	// Tax rate provider: Redis-backed with in-memory fallback
	taxFactory := cache.NewTaxRateProviderFactory(cfg.Redis, cfg.Tax, cache.WithLogger(log))
	taxRates, err := taxFactory.CreateProvider()
	if err != nil {
		log.Fatal("Failed to create tax rate provider", zap.Error(err))
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	authorizer := auth.NewClaimsAuthorizer()

	// Initialize application services
	orderService := orderapp.NewService(orderRepo, approvalRepo, taxRates, authorizer)
	mfgService := mfgapp.NewService(orderRepo, bomRepo, batchRepo, consumptionRepo)

	// Event bus: dispatching a production order triggers material planning
	eventBus := event.NewInMemoryEventBus(log)
	dispatchedHandler := mfgapp.NewOrderDispatchedHandler(mfgService, log)
	eventBus.Subscribe(dispatchedHandler)
	log.Info("Event handlers registered",
		zap.Strings("order_dispatched_events", dispatchedHandler.EventTypes()),
	)

	orderService.SetEventPublisher(eventBus)
	orderService.SetAuditSink(audit.NewZapSink(log))

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService)
	mfgHandler := handler.NewManufacturingHandler(mfgService)
	systemHandler := handler.NewSystemHandler(db.DB, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing - Start a span per request
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))

	// Health endpoints (outside API versioning, no authentication)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// API routes require authentication
	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtService))
	api.Use(middleware.TraceEnrichment())

	// Order lifecycle
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/number/:order_number", orderHandler.GetByOrderNumber)
	api.GET("/orders/:id", orderHandler.GetByID)
	api.PUT("/orders/:id", orderHandler.Update)
	api.DELETE("/orders/:id", orderHandler.Delete)
	api.POST("/orders/:id/lines", orderHandler.AddLine)
	api.PUT("/orders/:id/lines/:line_id", orderHandler.UpdateLine)
	api.DELETE("/orders/:id/lines/:line_id", orderHandler.RemoveLine)
	api.POST("/orders/:id/submit", orderHandler.Submit)
	api.POST("/orders/:id/decision", orderHandler.Decide)
	api.GET("/orders/:id/approvals", orderHandler.Approvals)
	api.POST("/orders/:id/dispatch", orderHandler.Dispatch)
	api.POST("/orders/:id/fulfillments", orderHandler.RecordFulfillment)
	api.POST("/orders/:id/cancel", orderHandler.Cancel)

	// Manufacturing
	api.GET("/orders/:id/requirements", mfgHandler.MaterialRequirements)
	api.POST("/orders/:id/batches", mfgHandler.CreateBatch)
	api.GET("/orders/:id/batches", mfgHandler.ListBatches)
	api.POST("/batches/:id/consumptions", mfgHandler.RecordConsumption)
	api.GET("/batches/:id/variance", mfgHandler.Variance)
	api.GET("/boms/:id/cost-analysis", mfgHandler.CostAnalysis)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
