package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"rankcheck/internal/analysis"
	"rankcheck/internal/config"
	"rankcheck/internal/db"
	"rankcheck/internal/jobs"
	"rankcheck/internal/metrics"
	"rankcheck/internal/server"
	"rankcheck/internal/snapshot"
	"rankcheck/internal/workspace"
)

func main() {
	ctx := context.Background()

	config.LoadEnvFiles()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	store, sessionStorage, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer closeStore()
	log.Printf("Saved analyses stored in %s", cfg.StorageBackend)

	gen, err := analysis.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	workspaces := workspace.NewRegistry()
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go jobs.NewWorkspaceSweeper(workspaces, 10*time.Minute, cfg.WorkspaceIdleTTL).Start(sweepCtx)

	srv := server.New(cfg, server.Options{Storage: sessionStorage})
	err = srv.RegisterRoutes(ctx, server.Deps{
		Analyzer:     analysis.NewClient(gen, yamlCfg.PromptInstructions()),
		Snapshots:    snapshot.NewRepository(store),
		Workspaces:   workspaces,
		Metrics:      metrics.Init(),
		DefaultDepth: yamlCfg.Analysis.DefaultSearchDepth,
	})
	if err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s (model %s)", cfg.ServerAddr, cfg.Model)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweeper()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// openStorage opens the configured snapshot backend. Redis also backs
// sessions and rate limits; every other backend leaves those in memory.
func openStorage(ctx context.Context, cfg *config.Config) (snapshot.Store, fiber.Storage, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		store := snapshot.NewRedisStore(cfg.RedisURL)
		return store, store.Storage(), func() { store.Close() }, nil

	case config.StoragePostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		log.Println("Migrations completed successfully")
		return database, nil, database.Close, nil

	case config.StorageMemory:
		return snapshot.NewMemoryStore(), nil, func() {}, nil

	default:
		store, err := snapshot.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() { store.Close() }, nil
	}
}
