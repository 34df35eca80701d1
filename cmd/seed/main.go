package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kodik/postcard/internal/cache"
	"github.com/kodik/postcard/internal/db"
	"github.com/kodik/postcard/pkg/config"
	"github.com/kodik/postcard/pkg/logging"
	"github.com/kodik/postcard/pkg/telemetry"
)

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
	logger.Info("Starting KODIK store seeder")

	if cfg.Database.Driver != config.DriverPostgres {
		logger.Fatal("Seeding needs the postgres store", zap.String("store", cfg.Database.Driver))
	}

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	if err := database.Seed(ctx, time.Now()); err != nil {
		logger.Fatal("Failed to seed store", zap.Error(err))
	}

	// Sellers may have changed under a running server
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Skipping seller cache invalidation", zap.Error(err))
	} else {
		defer redisCache.Close()
		sellers := cache.NewSellerCache(redisCache, db.NewStore(database.DB), cfg.Redis.SellerTTL)
		if err := sellers.Invalidate(ctx); err != nil {
			logger.Warn("Failed to invalidate seller cache", zap.Error(err))
		}
	}

	logger.Info("Store seeded")
}
