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

// Scope collections referenced by node stateIds and cadreIds.
const (
	StatesCollection = "states"
	CadresCollection = "cadres"
)

// ScopeStore manages one scope collection (states or cadres).
type ScopeStore struct {
	coll *mongo.Collection
}

// NewStateStore returns a ScopeStore over the states collection.
func NewStateStore(db *mongo.Database) *ScopeStore {
	return &ScopeStore{coll: db.Collection(StatesCollection)}
}

// NewCadreStore returns a ScopeStore over the cadres collection.
func NewCadreStore(db *mongo.Database) *ScopeStore {
	return &ScopeStore{coll: db.Collection(CadresCollection)}
}

// Create inserts a scope entry and returns it.
func (s *ScopeStore) Create(ctx context.Context, title string) (*models.ScopeRef, error) {
	d := scopeDoc{ID: uuid.NewString(), Title: title, CreatedAt: now()}
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		return nil, fmt.Errorf("create %s entry: %w", s.coll.Name(), err)
	}
	return &models.ScopeRef{ID: parseID(d.ID), Title: title}, nil
}

// FindByTitle retrieves an entry by its exact title. Returns nil if not found.
func (s *ScopeStore) FindByTitle(ctx context.Context, title string) (*models.ScopeRef, error) {
	var d scopeDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	err := s.coll.FindOne(ctx, bson.M{"title": title}, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s entry by title: %w", s.coll.Name(), err)
	}
	return &models.ScopeRef{ID: parseID(d.ID), Title: d.Title}, nil
}

// Titles returns id -> title for the given ids. Unknown ids are absent.
func (s *ScopeStore) Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}})
	if err != nil {
		return nil, fmt.Errorf("load %s titles: %w", s.coll.Name(), err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var d scopeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode %s title: %w", s.coll.Name(), err)
		}
		out[parseID(d.ID)] = d.Title
	}
	return out, cur.Err()
}
