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

	"nikshay/internal/models"
)

// NotificationsCollection is read by the delivery worker.
const NotificationsCollection = "usernotifications"

// NotificationStore persists notification records for the delivery worker.
type NotificationStore struct {
	coll *mongo.Collection
}

// NewNotificationStore returns a new NotificationStore.
func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{coll: db.Collection(NotificationsCollection)}
}

// Create inserts a notification and returns it.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	d := notificationDoc{
		ID:          uuid.NewString(),
		Title:       n.Title,
		Description: n.Description,
		Type:        string(n.Type),
		TypeTitle:   n.TypeTitle,
		Link:        n.Link,
		IsDeepLink:  n.IsDeepLink,
		UserIDs:     idStrings(n.UserIDs),
		CreatedBy:   n.CreatedBy.String(),
		CreatedAt:   now(),
	}
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	out := d.model()
	return &out, nil
}

// FindByID retrieves a notification by ID. Returns nil if not found.
func (s *NotificationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var d notificationDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find notification by id: %w", err)
	}
	out := d.model()
	return &out, nil
}
