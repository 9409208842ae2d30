package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase writes the config file when missing, then creates the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err := shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
			} else {
				r.config = config
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if _, err := r.Tracker(ctx); err != nil {
		return err
	}

	versions, err := shared.AppliedMigrations(ctx, r.store.DB)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s (%d migrations applied)\n", r.config.Database.Path, len(versions))
}

// SetupMigrations lists applied migration versions, or rolls back the latest one.
func (r *Runner) SetupMigrations(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.Tracker(ctx); err != nil {
		return err
	}

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(r.store.DB); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.logger.Info("rolled back latest migration")
	}

	versions, err := shared.AppliedMigrations(ctx, r.store.DB)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	if len(versions) == 0 {
		return r.writePlain("No migrations applied\n")
	}
	for _, v := range versions {
		r.writePlain("%03d\n", v)
	}
	return nil
}
