package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/payroll/internal/application/assistant"
	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/cache"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/erp/payroll/internal/infrastructure/event"
	"github.com/erp/payroll/internal/infrastructure/export"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/infrastructure/persistence"
	"github.com/erp/payroll/internal/infrastructure/printing"
	"github.com/erp/payroll/internal/infrastructure/scheduler"
	"github.com/erp/payroll/internal/infrastructure/storage"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/erp/payroll/internal/interfaces/http/handler"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/erp/payroll/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/erp/payroll/docs"
)

//	@title			Payroll API
//	@version		1.0
//	@description	Multi-tenant payroll payslip service

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var _ payrollapp.MetricsRecorder = (*telemetry.PayrollMetrics)(nil)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic("Failed to read .env: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// The OTLP log bridge is a no-op core when log export is disabled.
	log, err := logger.New(logCfg, providers.Logs.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	log.Info("Starting payroll service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if err := telemetry.NewDBTracingPlugin(tracing, log).RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}

	meter := providers.Meter.Meter("payroll")
	if providers.Meter.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		dbMetrics, err := telemetry.NewDBMetrics(meter, sqlDB, log)
		if err != nil {
			log.Warn("Database metrics disabled", zap.Error(err))
		} else if err := db.DB.Use(dbMetrics); err != nil {
			log.Warn("Database metrics disabled", zap.Error(err))
		} else {
			defer dbMetrics.Stop()
		}
	}

	countCache, redisClient, err := cache.NewCountCacheFactory(cfg.Redis, cfg.Cache.CountTTL,
		cache.WithLogger(log),
	).CreateCache(ctx)
	if err != nil {
		log.Fatal("Failed to create count cache", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}

	maintenance := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), log)
	if purger, ok := countCache.(scheduler.Purger); ok {
		if err := maintenance.Register(scheduler.NewCountCachePurgeJob(purger, cfg.Cache.PurgeInterval, log)); err != nil {
			log.Fatal("Failed to register count cache purge", zap.Error(err))
		}
	}
	if err := maintenance.Start(ctx); err != nil {
		log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
	}

	tokenBlacklist := newTokenBlacklist(cfg.Security, redisClient, log)

	payslipService := payrollapp.NewPayslipService(persistence.NewGormPayslipRepository(db.DB), log)
	payslipService.SetCountCache(countCache)
	payslipService.RegisterExportEncoder(export.NewCSVEncoder("payslips"))
	payslipService.RegisterExportEncoder(export.NewExcelEncoder("payslips", "Payslips"))

	var metrics payrollapp.MetricsRecorder
	if pm, err := telemetry.NewPayrollMetrics(meter, log); err != nil {
		log.Warn("Payroll metrics disabled", zap.Error(err))
	} else {
		metrics = pm
		payslipService.SetMetrics(metrics)
	}

	eventBus := event.NewInMemoryEventBus(log)
	payslipEvents := payrollapp.NewPayslipEventHandler(log, countCache, metrics)
	eventBus.Subscribe(payslipEvents)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	payslipService.SetEventPublisher(eventBus)

	renderer, err := printing.NewRenderer(cfg.Printing, log)
	if err != nil {
		log.Warn("Payslip printing unavailable", zap.Error(err))
	} else {
		payslipService.SetRenderer(renderer)
		defer func() {
			_ = renderer.Close()
		}()
	}

	if cfg.Storage.Enabled {
		archiver, err := storage.NewS3Archiver(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create document archiver", zap.Error(err))
		}
		if err := archiver.EnsureBucket(ctx); err != nil {
			log.Warn("Archive bucket check failed", zap.String("bucket", archiver.Bucket()), zap.Error(err))
		}
		payslipService.SetArchiver(archiver, payrollapp.ArchiveOptions{
			Exports:  cfg.Storage.ArchiveExports,
			Payslips: cfg.Storage.ArchivePayslips,
		})
	}

	tools := assistant.NewRegistry()
	if err := assistant.RegisterPayrollTools(tools, payslipService); err != nil {
		log.Fatal("Failed to register assistant tools", zap.Error(err))
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
	}

	engine := router.NewEngine(router.EngineDeps{
		Config:         cfg,
		Logger:         log,
		JWTService:     auth.NewJWTService(cfg.JWT),
		TokenBlacklist: tokenBlacklist,
		RateLimiter:    rateLimiter,
		Meter:          meter,
		System:         handler.NewSystemHandler(db, version, log),
		Payroll: router.PayrollHandlers{
			Payslips:  handler.NewPayslipHandler(payslipService, log),
			Module:    handler.NewModuleHandler(payslipService, log),
			Assistant: handler.NewAssistantHandler(tools, log),
		},
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := maintenance.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop maintenance scheduler", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newTokenBlacklist reads the revocation keys the identity service writes to
// redis. Without a redis connection no revocation is visible, so the check is
// disabled rather than backed by an empty list.
func newTokenBlacklist(cfg config.SecurityConfig, client *redis.Client, log *zap.Logger) auth.TokenBlacklist {
	if !cfg.TokenBlacklist {
		return nil
	}
	if client == nil {
		log.Warn("Token blacklist disabled: redis unavailable, revoked tokens stay valid until they expire")
		return nil
	}
	return auth.NewRedisTokenBlacklist(client)
}
