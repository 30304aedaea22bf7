// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"nikshay/internal/models"
)

// NotificationStore persists notification records for the delivery worker.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore returns a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = `id, title, description, type, type_title, link, is_deep_link, user_ids, created_by, created_at`

func scanNotification(scanner interface{ Scan(...any) error }, m *pgtype.Map) (*models.Notification, error) {
	var n models.Notification
	var users []pgtype.UUID
	var createdBy uuid.NullUUID
	err := scanner.Scan(
		&n.ID, &n.Title, &n.Description, &n.Type, &n.TypeTitle, &n.Link,
		&n.IsDeepLink, m.SQLScanner(&users), &createdBy, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.UserIDs = fromPgUUIDs(users)
	n.CreatedBy = createdBy.UUID
	return &n, nil
}

// Create inserts a notification and returns it.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO user_notifications (title, description, type, type_title, link, is_deep_link, user_ids, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+notificationColumns,
		n.Title, n.Description, string(n.Type), n.TypeTitle, n.Link, n.IsDeepLink,
		uuidArray(n.UserIDs), uuid.NullUUID{UUID: n.CreatedBy, Valid: n.CreatedBy != uuid.Nil},
	)
	created, err := scanNotification(row, pgtype.NewMap())
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return created, nil
}

// FindByID retrieves a notification by ID. Returns nil if not found.
func (s *NotificationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM user_notifications WHERE id = $1`, id)
	n, err := scanNotification(row, pgtype.NewMap())
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find notification by id: %w", err)
	}
	return n, nil
}
