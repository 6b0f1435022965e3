package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restopos/backend/internal/application/pos"
	"github.com/restopos/backend/internal/domain/catalog"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/restopos/backend/internal/domain/stock"
	"github.com/restopos/backend/internal/infrastructure/cache"
	"github.com/restopos/backend/internal/infrastructure/config"
	"github.com/restopos/backend/internal/infrastructure/logger"
	"github.com/restopos/backend/internal/infrastructure/persistence"
	"github.com/restopos/backend/internal/interfaces/http/handler"
	"github.com/restopos/backend/internal/interfaces/http/middleware"
	"github.com/restopos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS stock backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	bomRepo := persistence.NewGormBomRepository(db.DB)
	quantRepo := persistence.NewGormQuantRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	orderLineRepo := persistence.NewGormOrderLineRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize domain services
	indexLoader := catalog.NewIndexLoader(productRepo, bomRepo, log)
	aggregator := stock.NewAggregator(log)
	checker := stock.NewChecker(quantRepo, locationRepo, log)

	// Initialize the session close service
	closeService := pos.NewCloseService(indexLoader, aggregator, checker, txScope, log)
	closeService.SetOrderLineRepository(orderLineRepo)

	// Initialize the close guard (Redis, with optional in-memory fallback)
	if cfg.Close.GuardEnabled {
		guardFactory := cache.NewCloseGuardFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(cfg.Close.GuardInMemoryFallback),
		)
		guard, err := guardFactory.CreateGuard()
		if err != nil {
			log.Fatal("Failed to create close guard", zap.Error(err))
		}
		defer func() {
			if err := guard.Close(); err != nil {
				log.Error("Error closing close guard", zap.Error(err))
			}
		}()
		closeService.SetCloseGuard(guard, shared.CloseGuardConfig{
			TTL:     cfg.Close.GuardTTL,
			Enabled: true,
		})
	} else {
		log.Warn("Session close guard is disabled; a double close will double-decrement stock")
	}

	// Setup gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Register routes
	r := router.NewRouter(engine)
	r.Register(handler.NewSessionHandler(closeService))
	r.Setup()

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
