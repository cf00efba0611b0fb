package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"studio/internal/config"
	"studio/internal/draftstore"
	"studio/internal/jobs"
	"studio/internal/logger"
	"studio/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// One-shot database tasks for deployments that run them from a scheduler
// instead of the in-process cron.
func main() {
	mode := flag.String("mode", "", "Maintenance mode: migrate|prune-drafts")
	flag.Parse()

	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}
	if cfg.DBConnectionString == "" {
		logger.Fatal().Msg("DB_CONNECTION_STRING is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBConnectionString)
	if err != nil {
		logger.Fatal().Msgf("Failed to create database pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}
	logger.Info().Msg("Database connection established")

	if err := run(ctx, *mode, cfg, pool, logger); err != nil {
		logger.Fatal().Msgf("%s failed: %v", *mode, err)
	}
	logger.Info().Msgf("%s finished", *mode)
}

func run(ctx context.Context, mode string, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) error {
	store := draftstore.NewPostgresStore(pool)
	switch mode {
	case "migrate":
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		return repository.MigrateProgress(ctx, pool)
	case "prune-drafts":
		jobs.PruneDrafts(store, cfg.DraftRetention(), time.Now, logger)()
		return nil
	default:
		return fmt.Errorf("invalid mode: %q", mode)
	}
}
