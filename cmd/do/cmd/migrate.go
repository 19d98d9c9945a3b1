package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/config"
	"github.com/programpal/pathfinder/internal/db"
	"github.com/programpal/pathfinder/internal/logger"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(cfg *config.Config, database *sqlx.DB) error {
				return db.RunMigrations(cmd.Context(), database.DB, cfg.DBDriver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(cfg *config.Config, database *sqlx.DB) error {
				return db.MigrateDown(cmd.Context(), database.DB, cfg.DBDriver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(cfg *config.Config, database *sqlx.DB) error {
				err := db.MigrationStatus(cmd.Context(), database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}
				version, err := db.Version(cmd.Context(), database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "current version: %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

// withDB loads config, opens the database and closes it after fn.
func withDB(cmd *cobra.Command, fn func(cfg *config.Config, database *sqlx.DB) error) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.AppEnv, cfg.SentryDSN)
	defer logger.Flush()

	database, err := db.Init(cmd.Context(), cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	return fn(cfg, database)
}
