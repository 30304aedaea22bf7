// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"nikshay/internal/config"
)

var (
	cfg       *config.Config
	logLevel  string
	driverArg string
)

var rootCmd = &cobra.Command{
	Use:           "nikshay",
	Short:         "Ni-kshay SETU content API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if driverArg != "" {
			if driverArg != config.DriverPostgres && driverArg != config.DriverMongo {
				return fmt.Errorf("--driver must be %q or %q", config.DriverPostgres, config.DriverMongo)
			}
			cfg.StoreDriver = driverArg
		}
		slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr(), "driver", cfg.StoreDriver)
		return nil
	},
	// Running without a subcommand serves the API.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "debug", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&driverArg, "driver", "", "Override STORE_DRIVER (postgres or mongo)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}
