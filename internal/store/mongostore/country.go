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

// CountriesCollection holds the country lookup list.
const CountriesCollection = "countries"

// CountryStore manages countries.
type CountryStore struct {
	coll *mongo.Collection
}

// NewCountryStore returns a new CountryStore.
func NewCountryStore(db *mongo.Database) *CountryStore {
	return &CountryStore{coll: db.Collection(CountriesCollection)}
}

// List returns all countries, oldest first.
func (s *CountryStore) List(ctx context.Context) ([]models.Country, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.Country{}
	for cur.Next(ctx) {
		var d countryDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode country: %w", err)
		}
		items = append(items, d.model())
	}
	return items, cur.Err()
}

// Create inserts a country and returns it.
func (s *CountryStore) Create(ctx context.Context, c *models.Country) (*models.Country, error) {
	d := countryDoc{ID: uuid.NewString(), Title: textMap(c.Title), CreatedAt: now()}
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		return nil, fmt.Errorf("create country: %w", err)
	}
	out := d.model()
	return &out, nil
}

// Delete removes a country and returns it, or nil if it did not exist.
func (s *CountryStore) Delete(ctx context.Context, id uuid.UUID) (*models.Country, error) {
	var d countryDoc
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id.String()}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete country: %w", err)
	}
	out := d.model()
	return &out, nil
}
