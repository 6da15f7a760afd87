package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/tutordesk/tuition-api/api/swagger"
	"github.com/tutordesk/tuition-api/internal/ai"
	"github.com/tutordesk/tuition-api/internal/handler"
	"github.com/tutordesk/tuition-api/internal/middleware"
	"github.com/tutordesk/tuition-api/internal/repository"
	"github.com/tutordesk/tuition-api/internal/service"
	"github.com/tutordesk/tuition-api/pkg/cache"
	"github.com/tutordesk/tuition-api/pkg/config"
	"github.com/tutordesk/tuition-api/pkg/database"
	"github.com/tutordesk/tuition-api/pkg/logger"
	corsmiddleware "github.com/tutordesk/tuition-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutordesk/tuition-api/pkg/middleware/requestid"
	"github.com/tutordesk/tuition-api/pkg/storage"
)

// @title Tuition Desk API
// @version 1.0.0
// @description Tuition billing backend: calendar-driven fee reconciliation with AI-assisted notice handling
// @BasePath /
// @schemes http

const (
	demoEmail    = "tutor@tuitiondesk.local"
	demoPassword = "tutor123"
	demoFullName = "Gia sư Demo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The report cache is an optimization; the API stays up without it.
	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, serving reports uncached", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	studentRepo := repository.NewStudentRepository(db)
	eventRepo := repository.NewEventRepository(db)
	emailRepo := repository.NewEmailRepository(db)
	userRepo := repository.NewUserRepository(db)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.SeedDemoUser(ctx, demoEmail, demoPassword, demoFullName); err != nil {
		logr.Warn("failed to seed demo user", zap.Error(err))
	}
	cancel()

	billingSvc := service.NewBillingService(studentRepo, eventRepo, redisClient, cfg.Billing.ReportCacheTTL, logr)
	syncSvc := service.NewSyncService(studentRepo, eventRepo, emailRepo, logr)
	dashboardSvc := service.NewDashboardService(billingSvc, logr)

	analyzer := ai.NewGeminiClient(cfg.Gemini)
	reconcileSvc := service.NewReconcileService(analyzer, emailRepo, eventRepo, billingSvc, metricsSvc, cfg.Gemini.CallTimeout, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	if removed, err := exportStore.CleanupOlderThan(cfg.Exports.SignedURLTTL); err != nil {
		logr.Warn("failed to clean up stale exports", zap.Error(err))
	} else if len(removed) > 0 {
		logr.Info("removed stale exports", zap.Int("count", len(removed)))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(billingSvc, exportStore, signer, validate, service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentRepo)
	eventHandler := handler.NewEventHandler(eventRepo)
	billingHandler := handler.NewBillingHandler(billingSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	reconcileHandler := handler.NewReconcileHandler(reconcileSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	syncHandler := handler.NewSyncHandler(syncSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	// download links carry their own HMAC signature instead of a JWT
	api.GET("/export/:token", exportHandler.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/students", studentHandler.List)
	protected.GET("/events", eventHandler.List)
	protected.POST("/sync", syncHandler.Run)
	protected.GET("/billing/reports", billingHandler.Reports)
	protected.POST("/billing/export", exportHandler.Create)
	protected.POST("/reconcile/scan", reconcileHandler.Scan)
	protected.GET("/dashboard/summary", dashboardHandler.Summary)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
