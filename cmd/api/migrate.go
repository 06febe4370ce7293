package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/klinik/clinic-scheduler/internal/config"
	dbpkg "github.com/klinik/clinic-scheduler/internal/db"
	"github.com/klinik/clinic-scheduler/internal/logging"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			slog.SetDefault(logging.New(cfg))

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			slog.Info("migrations applied")
			return nil
		},
	}
}
