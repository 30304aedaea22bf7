// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

// SubscriberStore reads subscribers and their device tokens. Subscribers
// are registered by the mobile app backend; this service only creates
// them when seeding.
type SubscriberStore struct {
	db *sql.DB
}

// NewSubscriberStore returns a new SubscriberStore.
func NewSubscriberStore(db *sql.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

const subscriberColumns = `id, name, state_id, cadre_id, country_id, created_at`

// FindByID retrieves a subscriber by ID. Returns nil if not found.
func (s *SubscriberStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := s.db.QueryRowContext(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE id = $1`, id).Scan(
		&sub.ID, &sub.Name, &sub.StateID, &sub.CadreID, &sub.CountryID, &sub.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber by id: %w", err)
	}
	return &sub, nil
}

// Create inserts a subscriber and returns it.
func (s *SubscriberStore) Create(ctx context.Context, sub *models.Subscriber) (*models.Subscriber, error) {
	var out models.Subscriber
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO subscribers (name, state_id, cadre_id, country_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+subscriberColumns,
		sub.Name, sub.StateID, sub.CadreID, sub.CountryID,
	).Scan(&out.ID, &out.Name, &out.StateID, &out.CadreID, &out.CountryID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return &out, nil
}

// IDsInScope returns the ids of subscribers matching f. An empty filter
// matches every subscriber.
func (s *SubscriberStore) IDsInScope(ctx context.Context, f models.ScopeFilter) ([]uuid.UUID, error) {
	var conds []string
	var args []any
	if f.StateIDs != nil {
		args = append(args, uuidArray(f.StateIDs))
		conds = append(conds, fmt.Sprintf("state_id = ANY($%d)", len(args)))
	}
	if f.CadreIDs != nil {
		args = append(args, uuidArray(f.CadreIDs))
		conds = append(conds, fmt.Sprintf("cadre_id = ANY($%d)", len(args)))
	}
	query := `SELECT id FROM subscribers`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscribers in scope: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subscriber id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByCountry returns how many subscribers are registered in a country.
func (s *SubscriberStore) CountByCountry(ctx context.Context, countryID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers WHERE country_id = $1`, countryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subscribers by country: %w", err)
	}
	return count, nil
}

// DeviceTokenStore manages push notification device tokens.
type DeviceTokenStore struct {
	db *sql.DB
}

// NewDeviceTokenStore returns a new DeviceTokenStore.
func NewDeviceTokenStore(db *sql.DB) *DeviceTokenStore {
	return &DeviceTokenStore{db: db}
}

// Add registers a token for a user. Registering the same token twice is a no-op.
func (s *DeviceTokenStore) Add(ctx context.Context, t models.DeviceToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_device_tokens (user_id, token) VALUES ($1, $2)
		ON CONFLICT (user_id, token) DO NOTHING`, t.UserID, t.Token)
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
	rows, err := s.db.QueryContext(ctx,
		`SELECT token FROM user_device_tokens WHERE user_id = ANY($1) ORDER BY created_at`, uuidArray(userIDs))
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}
