package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"botdemo/internal/database"
)

var migrateTimeout time.Duration

// migrateCmd applies the embedded database migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", time.Minute, "Timeout for connecting and migrating")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	repo, err := database.NewPostgresRepository(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("Database is up to date")
	return nil
}
