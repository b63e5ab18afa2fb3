package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/persistence"
)

var createDatabase bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&createDatabase, "create-db", false, "create the postgres database if it does not exist")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	ctx := cmd.Context()

	if cfg.Database.Driver == config.DriverMySQL {
		db, err := persistence.NewMySQL(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.AutoMigrate(ctx); err != nil {
			return err
		}
		logger.Info("migrate: ok", zap.String("driver", cfg.Database.Driver))
		return nil
	}

	if createDatabase {
		if err := persistence.EnsureDatabase(ctx, cfg.Database, logger); err != nil {
			return err
		}
	}
	if err := persistence.RunMigrations(ctx, cfg.Database, logger); err != nil {
		return err
	}
	logger.Info("migrate: ok", zap.String("driver", cfg.Database.Driver))
	return nil
}
