package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/repositories"
	"github.com/desertthunder/tunebox/internal/services"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Dependencies are the long-lived objects every command shares.
type Dependencies struct {
	DB       *sql.DB
	Library  *library.Service
	YouTube  *services.YouTubeService
	Resolver *services.Resolver
}

// Close releases the database.
func (d *Dependencies) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// loadConfig reads path when it exists, falls back to defaults, then applies environment overrides.
func loadConfig(path string, logger *log.Logger) (*shared.Config, error) {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := shared.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	} else {
		logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// openDependencies opens and migrates the database and wires the metadata providers into the library.
func openDependencies(ctx context.Context, config *shared.Config, logger *log.Logger) (*Dependencies, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	shared.ConfigureDatabase(db, config.Database.Path, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	yt := config.Credentials.YouTube
	youtube, err := services.NewYouTubeService(ctx, services.YouTubeOpts{
		APIKey:            yt.APIKey,
		RequestsPerSecond: yt.RequestsPerSecond,
		Burst:             yt.Burst,
		Timeout:           yt.Timeout(services.DefaultRequestTimeout),
		Logger:            logger,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	if !youtube.Configured() {
		logger.Warn("YouTube API key not configured; search is disabled and lookups use oEmbed")
	}

	resolver := services.NewResolver(youtube, services.NewOEmbedService("", nil, logger), logger)
	lib := library.NewService(
		repositories.NewSongRepository(db),
		repositories.NewPlaylistRepository(db),
		resolver,
		logger,
	)

	return &Dependencies{DB: db, Library: lib, YouTube: youtube, Resolver: resolver}, nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := loadConfig(configPath, r.logger)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.Path, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		version, err := shared.CurrentVersion(db)
		if err != nil {
			return err
		}
		r.writePlain("✓ Rolled back to version %d\n", version)
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	statuses, err := shared.Migrations(db)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		mark := " "
		if s.Applied {
			mark = "✓"
		}
		r.writePlain("[%s] %04d %s\n", mark, s.Version, s.Name)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupConfig writes the example configuration to the given path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.writePlain("✓ Config file created at %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.youtube.api_key in %s (or %s in .env)\n", configPath, shared.EnvYouTubeAPIKey)
	r.writePlain("2. Run 'tunebox setup database'\n")
	return nil
}
