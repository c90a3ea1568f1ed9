package main

import (
	"os"
	"slices"
	"strings"
	"tablebook/config"
	"tablebook/helper"
	"tablebook/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	usage := strings.Join(helper.Actions, ", ")

	if len(os.Args) < argLength {
		log.Fatal().Str("actions", usage).Msg("Migration action is required")
	}

	action := os.Args[1]
	if !slices.Contains(helper.Actions, action) {
		log.Fatal().Str("action", action).Str("actions", usage).Msg("Invalid migration action")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
