// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nikshay/internal/algorithm"
	"nikshay/internal/cache"
	"nikshay/internal/country"
	"nikshay/internal/family"
	"nikshay/internal/handlers"
	"nikshay/internal/metrics"
	"nikshay/internal/middleware"
	"nikshay/internal/notify"
	"nikshay/internal/router"
	"nikshay/internal/session"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply migrations or indexes before serving")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg, serveMigrate)
	if err != nil {
		return err
	}
	defer b.close()

	// Valkey backs the tree cache, bearer sessions and the notification queue.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	m := metrics.New()
	deps := algorithm.Deps{
		Subscribers:   b.subscribers,
		Tokens:        b.tokens,
		Notifications: b.notifications,
		Queue:         notify.NewRedisQueue(valkeyClient, cfg.Notification.QueueKey),
		Links:         notify.NewLinkBuilder(cfg.Notification),
		Cache:         cache.NewTreeCache(valkeyClient, cfg.TreeCacheTTL),
		Metrics:       m,
	}

	var trees []*handlers.Tree
	for _, fam := range family.All() {
		trees = append(trees, handlers.NewTree(algorithm.New(fam, b.trees[fam.Path], deps)))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	r := router.New(router.Deps{
		Principals: session.NewStore(valkeyClient),
		Trees:      trees,
		Country:    handlers.NewCountry(country.NewService(b.countries, b.subscribers)),
		Limiter:    limiter,
		Metrics:    m,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "families", len(trees))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
