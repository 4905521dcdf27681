package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bibliotek/library-system/internal/infrastructure/config"
	"github.com/bibliotek/library-system/internal/infrastructure/db/postgres"
	"github.com/bibliotek/library-system/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load(slog.Default())
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

			db, err := connectPostgres(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.RunMigrations(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}
