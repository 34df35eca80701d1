package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kodik/postcard/internal/api"
	"github.com/kodik/postcard/internal/auth"
	"github.com/kodik/postcard/internal/cache"
	"github.com/kodik/postcard/internal/db"
	"github.com/kodik/postcard/internal/postcard"
	"github.com/kodik/postcard/pkg/config"
	"github.com/kodik/postcard/pkg/logging"
	"github.com/kodik/postcard/pkg/telemetry"
)

// store is what the server needs from an Authoritative Store
type store interface {
	api.Store
	postcard.SellerLookup
	Health(ctx context.Context) error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting KODIK post card server", zap.String("store", cfg.Database.Driver))

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Authoritative Store
	var st store
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		database, err := db.New(&cfg.Database, cfg.Logging.Level)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close()

		st = db.NewStore(database.DB)
	default:
		st = db.NewSeededMemoryStore(time.Now())
		logger.Info("Using in-memory store with demo data")
	}

	// Seller cache
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	sellers := cache.NewSellerCache(redisCache, st, cfg.Redis.SellerTTL)

	checks := map[string]api.HealthCheck{"store": st.Health}
	if redisCache.Enabled() {
		checks["cache"] = redisCache.Health
	}

	// Mounted cards
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	registry := postcard.NewRegistry(cfg.Card.MountTTL, nil)
	go registry.Run(ctx, time.Minute)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(auth.Middleware(cfg.Auth.JWTSecret))

	cards := api.NewCardAPI(registry, st, sellers, &cfg.Card, nil)
	api.NewRouter(cards, checks).SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
