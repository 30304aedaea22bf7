// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nikshay/internal/family"
)

// collectionIndexes lists the secondary indexes of the non-tree collections.
var collectionIndexes = map[string][]mongo.IndexModel{
	StatesCollection: {
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetName("idx_title")},
	},
	CadresCollection: {
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetName("idx_title")},
	},
	SubscribersCollection: {
		{Keys: bson.D{{Key: "stateId", Value: 1}, {Key: "cadreId", Value: 1}}, Options: options.Index().SetName("idx_stateId_cadreId")},
		{Keys: bson.D{{Key: "countryId", Value: 1}}, Options: options.Index().SetName("idx_countryId")},
	},
	DeviceTokensCollection: {
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_userId_token").SetUnique(true),
		},
	},
}

// EnsureIndexes creates the indexes of every collection the stores use.
// Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database, families []family.Family) error {
	for name, idx := range collectionIndexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	for _, fam := range families {
		if _, err := db.Collection(fam.Collection).Indexes().CreateMany(ctx, TreeIndexes); err != nil {
			return fmt.Errorf("create %s indexes: %w", fam.Collection, err)
		}
	}
	slog.Info("mongo indexes ensured", "families", len(families))
	return nil
}
