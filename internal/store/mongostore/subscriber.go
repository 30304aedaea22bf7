// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nikshay/internal/models"
)

// Collections owned by the mobile app backend.
const (
	SubscribersCollection  = "subscribers"
	DeviceTokensCollection = "userdevicetokens"
)

// SubscriberStore reads subscribers from the subscribers collection.
type SubscriberStore struct {
	coll *mongo.Collection
}

// NewSubscriberStore returns a new SubscriberStore.
func NewSubscriberStore(db *mongo.Database) *SubscriberStore {
	return &SubscriberStore{coll: db.Collection(SubscribersCollection)}
}

// FindByID retrieves a subscriber by ID. Returns nil if not found.
func (s *SubscriberStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	var d subscriberDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber by id: %w", err)
	}
	sub := d.model()
	return &sub, nil
}

// Create inserts a subscriber and returns it.
func (s *SubscriberStore) Create(ctx context.Context, sub *models.Subscriber) (*models.Subscriber, error) {
	d := subscriberDoc{
		ID:        uuid.NewString(),
		Name:      sub.Name,
		StateID:   idString(sub.StateID),
		CadreID:   idString(sub.CadreID),
		CountryID: idString(sub.CountryID),
		CreatedAt: now(),
	}
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	out := d.model()
	return &out, nil
}

// IDsInScope returns the ids of subscribers matching f. An empty filter
// matches every subscriber.
func (s *SubscriberStore) IDsInScope(ctx context.Context, f models.ScopeFilter) ([]uuid.UUID, error) {
	filter := bson.M{}
	if f.StateIDs != nil {
		filter["stateId"] = bson.M{"$in": idStrings(f.StateIDs)}
	}
	if f.CadreIDs != nil {
		filter["cadreId"] = bson.M{"$in": idStrings(f.CadreIDs)}
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list subscribers in scope: %w", err)
	}
	defer cur.Close(ctx)

	var ids []uuid.UUID
	for cur.Next(ctx) {
		var d struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode subscriber id: %w", err)
		}
		ids = append(ids, parseID(d.ID))
	}
	return ids, cur.Err()
}

// CountByCountry returns how many subscribers are registered in a country.
func (s *SubscriberStore) CountByCountry(ctx context.Context, countryID uuid.UUID) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"countryId": countryID.String()})
	if err != nil {
		return 0, fmt.Errorf("count subscribers by country: %w", err)
	}
	return int(n), nil
}

// DeviceTokenStore manages push notification device tokens.
type DeviceTokenStore struct {
	coll *mongo.Collection
}

// NewDeviceTokenStore returns a new DeviceTokenStore.
func NewDeviceTokenStore(db *mongo.Database) *DeviceTokenStore {
	return &DeviceTokenStore{coll: db.Collection(DeviceTokensCollection)}
}

// Add registers a token for a user. Registering the same token twice is a no-op.
func (s *DeviceTokenStore) Add(ctx context.Context, t models.DeviceToken) error {
	filter := bson.M{"userId": t.UserID.String(), "token": t.Token}
	update := bson.M{"$setOnInsert": deviceTokenDoc{UserID: t.UserID.String(), Token: t.Token, CreatedAt: now()}}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("add device token: %w", err)
	}
	return nil
}

// TokensFor returns the tokens registered by any of the given users.
func (s *DeviceTokenStore) TokensFor(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"userId": bson.M{"$in": idStrings(userIDs)}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer cur.Close(ctx)

	var tokens []string
	for cur.Next(ctx) {
		var d deviceTokenDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode device token: %w", err)
		}
		tokens = append(tokens, d.Token)
	}
	return tokens, cur.Err()
}
