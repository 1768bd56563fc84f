package main

import (
	"context"
	"os"

	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config, err := loadConfig("config.toml", logger)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}
	shared.SetLogLevelString(logger, config.Log.Level)

	ctx := context.Background()
	deps, err := openDependencies(ctx, config, logger)
	if err != nil {
		logger.Error("library unavailable", "error", err)
	}
	defer deps.Close()

	opts := RunnerOpts{Config: config, Logger: logger}
	if deps != nil {
		opts.Library = deps.Library
		opts.YouTube = deps.YouTube
		opts.Resolver = deps.Resolver
	}
	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "tunebox",
		Usage:    "Save YouTube songs and organize them into playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if kind := shared.ErrorKind(err); kind == shared.KindInternal {
			logger.Error("application error", "error", err)
		} else {
			logger.Error(shared.UserMessage(err), "kind", kind)
		}
		deps.Close()
		os.Exit(1)
	}
}
