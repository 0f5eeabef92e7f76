package main

import (
	"travel-booking/internal/handler/middleware"
	"travel-booking/internal/infra/db"
	"travel-booking/internal/pkg/config"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending schema migrations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadMigrationConfig()
			if err != nil {
				return err
			}
			logger := middleware.NewLogger(cfg.Log).GetSlogLogger()
			return db.Migrate(cmd.Context(), cfg.DB.BuildDSN(), cfg.DB.AtlasBin, logger)
		},
	}
}
