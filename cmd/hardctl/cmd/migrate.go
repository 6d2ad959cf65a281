package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/twentyhard/twentyhard/internal/config"
	"github.com/twentyhard/twentyhard/internal/db"
	"github.com/twentyhard/twentyhard/internal/logger"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage SQL schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), "up")
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), "down")
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), "status")
		},
	})

	return migrateCmd
}

func runMigrate(ctx context.Context, direction string) error {
	cfg := config.Load()
	flush := logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppEnv)
	defer flush()

	if cfg.StoreDriver != config.StoreSQLite && cfg.StoreDriver != config.StorePgx {
		return fmt.Errorf("migrations need a SQL store, STORE_DRIVER is %q", cfg.StoreDriver)
	}

	database, err := db.Init(ctx, cfg.StoreDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	switch direction {
	case "up":
		err = db.RunMigrations(database.DB, cfg.StoreDriver)
	case "down":
		err = db.MigrateDown(database.DB, cfg.StoreDriver)
	}
	if err != nil {
		return err
	}

	version, err := db.MigrationStatus(database.DB, cfg.StoreDriver)
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d\n", version)
	return nil
}
