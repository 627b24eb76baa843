package main

import (
	"context"
	"os"

	"webshop/internal/app"
	"webshop/internal/config"
	"webshop/internal/logging"
	"webshop/internal/seed"
)

// Usage: seed [file-or-url]. Without an argument the built-in catalog is used.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info().Msg("starting seed script")

	ctx := context.Background()
	shopApp, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer shopApp.Close()

	var source string
	if len(os.Args) > 1 {
		source = os.Args[1]
	}
	data, err := seed.Source(ctx, source)
	if err != nil {
		logger.Fatal().Err(err).Str("source", source).Msg("failed to load seed data")
	}

	result, err := seed.Run(ctx, shopApp.Store, data)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed database")
	}
	logger.Info().
		Int("categories", result.Categories).
		Int("books", result.Books).
		Int("users", result.Users).
		Msg("seed completed")
}
