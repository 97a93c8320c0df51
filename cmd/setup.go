package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/bmpsync/internal/shared"
	"github.com/desertthunder/bmpsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the song schema in the configured database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	r.logger.Info("initializing database", "driver", r.config.Database.Driver)

	db, err := r.openDB(ctx, r.config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return r.writePlain("%s Database schema is up to date\n", ui.Styles.OK("✓"))
}

// SetupConfig writes the embedded example config to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s Config written to %s\n", ui.Styles.OK("✓"), path)
	return r.writePlain("%s\n", ui.Styles.Help("Database credentials are read from SCRAPPER_DB_* environment variables."))
}
