package main

import (
	"context"

	"innkeep/config"
	"innkeep/di"
	"innkeep/helper"
	"innkeep/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Innkeep API
// @version 1.0
// @description Room inventory, bookings and availability for small hotels.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	app := di.InitializeApp()

	if cfg.Worker.HoldSweeper.Enable {
		if err := app.Sweeper.Start(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to start hold sweeper")
		}

		app.HTTP.OnCleanup(app.Sweeper.Stop)
	}

	app.HTTP.OnCleanup(func() {
		if err := app.Kafka.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close kafka writers")
		}

		if err := app.Otel.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	})

	app.HTTP.Serve()
}
