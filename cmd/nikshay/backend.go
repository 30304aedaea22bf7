// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"

	"nikshay/internal/algorithm"
	"nikshay/internal/config"
	"nikshay/internal/country"
	"nikshay/internal/database"
	"nikshay/internal/family"
	"nikshay/internal/seed"
	"nikshay/internal/store"
	"nikshay/internal/store/mongostore"
	"nikshay/internal/tree"
)

type subscriberStore interface {
	algorithm.SubscriberFinder
	country.UsageCounter
	seed.SubscriberCreator
}

type tokenStore interface {
	algorithm.TokenFinder
	seed.TokenAdder
}

// backend is the set of stores for the configured driver. Both drivers
// expose the same interfaces, so the rest of the wiring is shared.
type backend struct {
	trees         map[string]tree.Store
	states        seed.ScopeStore
	cadres        seed.ScopeStore
	subscribers   subscriberStore
	tokens        tokenStore
	notifications algorithm.NotificationCreator
	countries     country.Store
	close         func()
}

// openBackend connects to the configured store. With migrate set the
// schema (Postgres) or indexes (Mongo) are brought up to date first.
func openBackend(ctx context.Context, cfg *config.Config, migrate bool) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, migrate)
	default:
		return openPostgres(cfg, migrate)
	}
}

func openPostgres(cfg *config.Config, migrate bool) (*backend, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	b := &backend{
		trees:         map[string]tree.Store{},
		states:        store.NewStateStore(db),
		cadres:        store.NewCadreStore(db),
		subscribers:   store.NewSubscriberStore(db),
		tokens:        store.NewDeviceTokenStore(db),
		notifications: store.NewNotificationStore(db),
		countries:     store.NewCountryStore(db),
		close:         func() { db.Close() },
	}
	for _, fam := range family.All() {
		b.trees[fam.Path] = store.NewTreeStore(db, fam)
	}
	return b, nil
}

func openMongo(ctx context.Context, cfg *config.Config, migrate bool) (*backend, error) {
	db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	closeFn := func() { _ = db.Client().Disconnect(context.Background()) }
	if migrate {
		if err := mongostore.EnsureIndexes(ctx, db, family.All()); err != nil {
			closeFn()
			return nil, err
		}
	}

	b := &backend{
		trees:         map[string]tree.Store{},
		states:        mongostore.NewStateStore(db),
		cadres:        mongostore.NewCadreStore(db),
		subscribers:   mongostore.NewSubscriberStore(db),
		tokens:        mongostore.NewDeviceTokenStore(db),
		notifications: mongostore.NewNotificationStore(db),
		countries:     mongostore.NewCountryStore(db),
		close:         closeFn,
	}
	for _, fam := range family.All() {
		b.trees[fam.Path] = mongostore.NewTreeStore(db, fam)
	}
	return b, nil
}
