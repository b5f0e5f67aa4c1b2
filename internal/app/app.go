package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/config"
	"rentease_backend/internal/database"
	"rentease_backend/internal/email"
	"rentease_backend/internal/handlers"
	"rentease_backend/internal/imageprocessor"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/middleware"
	"rentease_backend/internal/routes"
	"rentease_backend/internal/services"
	"rentease_backend/internal/storage"
	"rentease_backend/internal/validator"
	"rentease_backend/pkg/apperrors"
	"rentease_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Runtime - долгоживущие компоненты приложения
type Runtime struct {
	Tokens    *auth.TokenManager
	Repos     *services.Repositories
	Services  *services.ServiceContainer
	Storage   storage.Storage
	Broker    ws.Broker
	WSManager *ws.WebSocketManager
	Mailer    *email.Mailer
	Limiter   *middleware.RateLimiter
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is not configured")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN, !cfg.IsProduction())
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Без администратора сервер не запускаем
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := NewRuntime(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize runtime", "error", err)
	}

	// Realtime: брокер -> менеджер сокетов этого инстанса
	go rt.WSManager.Run(ctx)
	go func() {
		if err := rt.Broker.Subscribe(ctx, func(msg ws.Message) { rt.WSManager.Deliver(msg) }); err != nil {
			logger.Error("Realtime subscription stopped", "error", err.Error())
		}
	}()

	scheduler, err := SetupScheduler(cfg, gormDB, rt)
	if err != nil {
		logger.Fatal("Failed to register workers", "error", err)
	}
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           SetupRouter(cfg, gormDB, rt),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err.Error())
	}
	scheduler.Stop(shutdownCtx)
	if err := rt.Broker.Close(); err != nil {
		logger.Warn("Broker close error", "error", err.Error())
	}
	if err := rt.Mailer.Close(); err != nil {
		logger.Warn("Mailer close error", "error", err.Error())
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// NewRuntime собирает хранилище, сервисы, брокер и почту
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	storageInstance, err := storage.NewStorage(storage.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	repos := services.NewRepositories()
	serviceContainer := services.NewServiceContainer(repos, services.Deps{
		Tokens:        tokens,
		Storage:       storageInstance,
		Processor:     imageprocessor.NewProcessor(cfg.Upload.ImageQuality),
		BaseURL:       cfg.BaseURL(),
		MaxUploadSize: cfg.Upload.MaxSize,
	})

	broker := ws.NewBroker(ctx, ws.BrokerOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Channel:  cfg.Redis.Channel,
	})

	return &Runtime{
		Tokens:    tokens,
		Repos:     repos,
		Services:  serviceContainer,
		Storage:   storageInstance,
		Broker:    broker,
		WSManager: ws.NewWebSocketManager(),
		Mailer:    email.NewMailer(email.NewProvider(cfg), email.NewTemplateManager()),
		Limiter:   middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}, nil
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, rt *Runtime) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.App.CORSOrigins))
	router.Use(rt.Limiter.Middleware())
	router.Use(middleware.DBMiddleware(gormDB))

	appHandlers := handlers.NewAppHandlers(rt.Services, validator.New(), rt.Tokens, cfg.App.APIKey)
	wsHandler := ws.NewWebSocketHandler(rt.WSManager, rt.Tokens, cfg.App.CORSOrigins)

	filesDir := ""
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		filesDir = cfg.Storage.BasePath
	}

	routes.RegisterRoutes(router, appHandlers, wsHandler, filesDir)
	return router
}
