// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

// CountryStore manages countries in the database.
type CountryStore struct {
	db *sql.DB
}

// NewCountryStore returns a new CountryStore.
func NewCountryStore(db *sql.DB) *CountryStore {
	return &CountryStore{db: db}
}

func scanCountry(scanner interface{ Scan(...any) error }) (*models.Country, error) {
	var c models.Country
	if err := scanner.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all countries, oldest first.
func (s *CountryStore) List(ctx context.Context) ([]models.Country, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, created_at FROM countries ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	items := []models.Country{}
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Create inserts a country and returns it.
func (s *CountryStore) Create(ctx context.Context, c *models.Country) (*models.Country, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO countries (title) VALUES ($1) RETURNING id, title, created_at`, c.Title)
	created, err := scanCountry(row)
	if err != nil {
		return nil, fmt.Errorf("create country: %w", err)
	}
	return created, nil
}

// Delete removes a country and returns it, or nil if it did not exist.
func (s *CountryStore) Delete(ctx context.Context, id uuid.UUID) (*models.Country, error) {
	row := s.db.QueryRowContext(ctx, `DELETE FROM countries WHERE id = $1 RETURNING id, title, created_at`, id)
	c, err := scanCountry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete country: %w", err)
	}
	return c, nil
}
