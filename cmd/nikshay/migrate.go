package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply Postgres migrations or create Mongo indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		b.close()
		slog.Info("store is up to date", "driver", cfg.StoreDriver)
		return nil
	},
}
