package main

import (
	"context"
	"os"
	"tablebook/config"
	"tablebook/di"
	"tablebook/helper"
	"tablebook/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.SetOutput(cfg, os.Stdout)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := di.InitializeApplication()

	go app.HoldPurge.Run(ctx)

	if err := app.HTTP.Serve(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
}
