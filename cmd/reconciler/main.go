package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zourte2486/school-platform-test/internal/config"
	"github.com/zourte2486/school-platform-test/internal/db"
	"github.com/zourte2486/school-platform-test/internal/logger"
	"github.com/zourte2486/school-platform-test/internal/queue"
	"github.com/zourte2486/school-platform-test/internal/storage"
	"github.com/zourte2486/school-platform-test/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting blob reconciler")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	repo := db.NewSchoolRepository(database)

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	markers := queue.NewMarkerStore(redisClient, cfg)

	// Initialize blob storage backend
	blobs, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob storage")
	}

	reconciler := worker.NewReconciler(cfg, repo, blobs, markers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := reconciler.Start(ctx); err != nil && err != context.Canceled {
			log.Fatal().Err(err).Msg("Reconciler failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down reconciler...")

	cancel()
	reconciler.Stop()

	log.Info().Msg("Reconciler exited")
}
