package router

import (
	"time"

	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/interfaces/http/handler"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineDeps are the collaborators of the HTTP engine
type EngineDeps struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	// RateLimiter enables per tenant rate limiting when set
	RateLimiter    *middleware.RateLimiter
	Meter          metric.Meter
	TracerProvider trace.TracerProvider
	System         *handler.SystemHandler
	Payroll        PayrollHandlers
}

// NewEngine builds the gin engine with the full middleware stack and every
// route registered.
//
// Global middleware, in order: RequestID, Recovery, request logging,
// tracing, HTTP metrics, security headers, CORS, body limit, request
// timeout. The API group adds JWT authentication, tenant resolution, rate
// limiting and span enrichment; each route then checks its permission.
func NewEngine(deps EngineDeps) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        cfg.Telemetry.Enabled,
		TracerProvider: deps.TracerProvider,
	}))
	engine.Use(middleware.HTTPMetrics(deps.Meter, log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	corsConfig.MaxAge = 12 * time.Hour
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	}

	if deps.System != nil {
		engine.GET("/health", deps.System.Health)
		engine.GET("/ready", deps.System.Ready)
	}

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))

	jwtConfig := middleware.DefaultJWTConfig(deps.JWTService)
	jwtConfig.TokenBlacklist = deps.TokenBlacklist
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddleware(jwtConfig))
	r.Use(middleware.TenantMiddleware(log))
	if deps.RateLimiter != nil {
		r.Use(middleware.RateLimit(deps.RateLimiter))
	}
	r.Use(middleware.SpanEnricher())

	r.Register(NewPayrollRoutes(deps.Payroll, log))

	if deps.System != nil {
		systemRoutes := NewDomainGroup("system", "/system")
		systemRoutes.GET("/info", deps.System.GetSystemInfo)
		r.Register(systemRoutes)
	}

	r.Setup()
	return engine
}
