package main

import (
	"context"
	"os/signal"
	"syscall"

	"innkeep/config"
	"innkeep/di"
	"innkeep/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := di.InitializeSweeper()

	if err := app.Sweeper.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start hold sweeper")
	}

	log.Info().Msg("Hold sweeper running.")

	<-ctx.Done()

	log.Info().Msg("Received shutdown signal. Stopping hold sweeper.")

	app.Sweeper.Stop()

	stats := app.Sweeper.Stats()
	log.Info().Int64("runs", stats.Runs).Int64("released", stats.Released).Msg("Hold sweeper stopped.")

	if err := app.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close kafka writers")
	}

	if err := app.Otel.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
