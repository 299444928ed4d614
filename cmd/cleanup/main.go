// Command cleanup runs a single orphaned-image sweep and exits. Meant for
// cron or manual runs; the server also sweeps on its own schedule.
package main

import (
	"context"
	"os"
	"time"

	"melodia/internal/app/worker"
	"melodia/internal/domain/repository"
	"melodia/internal/platform/config"
	"melodia/internal/platform/database"
	"melodia/internal/platform/logger"
	"melodia/internal/platform/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	userRepo := repository.NewPgUserRepository(db)
	imageStore := storage.NewHTTPImageStore(cfg.ImageStoreURL, cfg.ImageStoreKey, cfg.ImageStoreFolder)
	sweeper := worker.NewImageSweeper(userRepo, imageStore, cfg.SweepInterval, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := sweeper.Sweep(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("image sweep failed")
	}
	log.Info().Int("removed", removed).Msg("image sweep completed")
}
