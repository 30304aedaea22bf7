// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nikshay/internal/cache"
	"nikshay/internal/models"
	"nikshay/internal/seed"
	"nikshay/internal/session"
)

var (
	seedFile  string
	seedAdmin bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load development fixtures into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.IsDev() {
			return fmt.Errorf("seed refuses to run with APP_ENV=%s", cfg.Env)
		}

		f, err := loadFixtures()
		if err != nil {
			return err
		}

		b, err := openBackend(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		defer b.close()

		targets := seed.Targets{
			States:      b.states,
			Cadres:      b.cadres,
			Countries:   b.countries,
			Subscribers: b.subscribers,
			Tokens:      b.tokens,
			Trees:       map[string]seed.NodeCreator{},
		}
		for path, s := range b.trees {
			targets.Trees[path] = s
		}
		if _, err := seed.Run(cmd.Context(), targets, f); err != nil {
			return err
		}

		if !seedAdmin {
			return nil
		}
		return mintAdminSession(cmd)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Fixture YAML file (defaults to the embedded fixtures)")
	seedCmd.Flags().BoolVar(&seedAdmin, "admin-session", true, "Mint an admin bearer token in Valkey")
}

func loadFixtures() (*seed.Fixtures, error) {
	if seedFile == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return seed.Parse(data)
}

// mintAdminSession stores a development admin principal and prints its
// token; the real auth service is not part of this API.
func mintAdminSession(cmd *cobra.Command) error {
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer client.Close()

	p := &session.Principal{UserID: uuid.New(), Role: models.RoleAdmin}
	token, err := session.NewStore(client).Create(cmd.Context(), p)
	if err != nil {
		return fmt.Errorf("mint admin session: %w", err)
	}
	slog.Info("development admin session created", "ttl", session.DefaultTTL.String())
	fmt.Fprintf(cmd.OutOrStdout(), "Authorization: Bearer %s\n", token)
	return nil
}
