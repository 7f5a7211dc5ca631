package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/commutelog/api/internal/config"
	"github.com/commutelog/api/internal/db"
	"github.com/commutelog/api/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back database migrations",
		SilenceUsage: true,
	}

	cmd.AddCommand(migrateCmd("up", "Apply all pending migrations", db.RunMigrations))
	cmd.AddCommand(migrateCmd("down", "Roll back the most recent migration", db.MigrateDown))
	return cmd
}

func migrateCmd(use, short string, run func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
			defer logger.Flush()

			database, err := db.Init(cfg.DBDriver, cfg.DSN(), db.PoolConfig{MaxOpen: 1})
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			return run(database.DB, cfg.DBDriver)
		},
	}
}
