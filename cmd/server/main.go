package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appreceivable "github.com/imamecatronica/backend/internal/application/receivable"
	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/domain/receivable"
	"github.com/imamecatronica/backend/internal/infrastructure/auth"
	"github.com/imamecatronica/backend/internal/infrastructure/cache"
	"github.com/imamecatronica/backend/internal/infrastructure/config"
	"github.com/imamecatronica/backend/internal/infrastructure/logger"
	"github.com/imamecatronica/backend/internal/infrastructure/persistence"
	"github.com/imamecatronica/backend/internal/infrastructure/storage"
	"github.com/imamecatronica/backend/internal/infrastructure/telemetry"
	"github.com/imamecatronica/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			IMA Mecatrónica Pending Income API
//	@version		1.0
//	@description	Aging and aggregation of customer invoices awaiting payment
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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
		_ = log.Sync()
	}()

	log.Info("Starting pending income service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid business time zone", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = logProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() && !tracerProvider.EnableSpanProfiles() {
		log.Warn("Span profiles need telemetry.enabled, skipping")
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database pool", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Database pool metrics not registered", zap.Error(err))
		}
	}

	// Data access
	var reader receivable.PendingIncomeReader = persistence.NewGormPendingIncomeRepository(db.DB,
		persistence.WithMaxInvoicesPerClient(cfg.PendingIncome.MaxInvoicesPerClient))

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			// Reads keep working against the database
			log.Warn("Redis unavailable, pending income cache disabled", zap.Error(err))
		} else {
			defer func() {
				_ = redisClient.Close()
			}()
			reader = cache.NewCachedPendingIncomeReader(reader, cache.NewRedisStore(redisClient),
				cfg.Redis.TTL, cfg.Redis.KeyPrefix, log)
			log.Info("Pending income cache enabled", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Report storage
	var reports appreceivable.ReportStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ReportStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize report storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Report bucket not available", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		reports = s3Storage
	} else {
		log.Info("No report bucket configured, keeping exports in memory")
		reports = storage.NewMemoryReportStorage()
	}

	metrics, err := telemetry.NewPendingIncomeMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create pending income metrics", zap.Error(err))
	}

	service := appreceivable.NewPendingIncomeService(reader, log,
		appreceivable.WithLocation(loc),
		appreceivable.WithFetchConcurrency(cfg.PendingIncome.FetchConcurrency),
		appreceivable.WithMetrics(metrics),
		appreceivable.WithReportStorage(reports),
	)

	// Identity
	credentials, err := auth.NewCredentialStoreFromConfig(cfg.Auth)
	if err != nil {
		log.Fatal("Invalid operator configuration", zap.Error(err))
	}
	if credentials.Len() == 0 {
		log.Warn("No operators configured, sign-in will always fail")
	}

	deps := router.Dependencies{
		Config:       cfg,
		Logger:       log,
		Service:      service,
		Credentials:  credentials,
		Tokens:       auth.NewTokenService(cfg.JWT),
		Capabilities: identity.DefaultCapabilities(),
		DB:           sqlDB,
		Version:      telemetry.ServiceVersion,
	}
	if meterProvider.IsEnabled() {
		deps.Meter = meter
	}
	engine, err := router.New(deps)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Profiler stop failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Logger provider shutdown failed", zap.Error(err))
	}
}
