package router

import (
	"github.com/gin-gonic/gin"
	_ "github.com/imamecatronica/backend/docs"
	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/infrastructure/auth"
	"github.com/imamecatronica/backend/internal/infrastructure/config"
	"github.com/imamecatronica/backend/internal/infrastructure/logger"
	"github.com/imamecatronica/backend/internal/interfaces/http/handler"
	"github.com/imamecatronica/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Dependencies are the collaborators wired into the HTTP engine
type Dependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Service      handler.PendingIncomeService
	Credentials  auth.CredentialStore
	Tokens       *auth.TokenService
	Capabilities identity.CapabilityTable
	DB           handler.Pinger // optional
	Meter        metric.Meter   // optional; nil disables HTTP metrics
	Version      string
}

// New builds the gin engine with the global middleware chain and every
// API route mounted under /api/v1.
func New(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(deps.Logger),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(deps.Logger),
		middleware.SpanAttributes(),
		middleware.Secure(middleware.DefaultSecurityConfig()),
		middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
	)
	if deps.Meter != nil {
		metrics, err := middleware.HTTPMetrics(deps.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(metrics)
	}

	authz := middleware.NewAuthorizer(deps.Capabilities, deps.Logger)
	bearer := middleware.BearerAuth(deps.Tokens, deps.Logger)
	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)

	system := handler.NewSystemHandler(cfg.App.Name, deps.Version, deps.DB)
	authHandler := handler.NewAuthHandler(deps.Credentials, deps.Tokens, deps.Capabilities)
	pending := handler.NewPendingIncomeHandler(deps.Service)

	systemRoutes := NewDomainGroup("system", "").
		GET("/health", system.Health).
		GET("/system/info", system.GetSystemInfo)

	authRoutes := NewDomainGroup("auth", "/auth").
		POST("/login", middleware.RateLimit(loginLimiter), authHandler.Login).
		GET("/me", bearer, authHandler.Me)

	read := authz.RequireAny(identity.PermPendingIncomeRead)
	pendingRoutes := NewDomainGroup("pending-incomes", "/pending-incomes").
		Use(bearer).
		GET("/clients", read, pending.ListClients).
		GET("/summary", read, pending.GetSummary).
		GET("/clients/:id", read, pending.GetClientDetail).
		POST("/exports", authz.RequireAny(identity.PermPendingIncomeExport), pending.ExportClients)

	engine.GET("/swagger/*any", middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:    cfg.HTTP.SwaggerEnabled,
		AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
	}), ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewRouter(engine).Register(systemRoutes, authRoutes, pendingRoutes).Setup()
	return engine, nil
}
