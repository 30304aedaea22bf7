// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType distinguishes broadcast notifications from targeted ones.
type NotificationType string

const (
	NotificationTypeMultiple NotificationType = "multiple"
	NotificationTypePublic   NotificationType = "public"
)

// Notification is the persisted record of a push notification. Delivery
// itself happens outside this service.
type Notification struct {
	ID          uuid.UUID        `json:"_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        NotificationType `json:"type"`
	TypeTitle   string           `json:"typeTitle"`
	Link        string           `json:"link"`
	IsDeepLink  bool             `json:"isDeepLink"`
	UserIDs     []uuid.UUID      `json:"userId"`
	CreatedBy   uuid.UUID        `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Country is a tenant-scope reference owned by subscribers.
type Country struct {
	ID        uuid.UUID `json:"_id"`
	Title     Text      `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
