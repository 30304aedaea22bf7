// Package models defines the data structures that map to database tables
// and documents, and the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two kinds of caller the API serves.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSubscriber Role = "subscriber"
)

// Subscriber is an app user. Its state and cadre partition which content
// it may see.
type Subscriber struct {
	ID        uuid.UUID  `json:"_id"`
	Name      string     `json:"name"`
	StateID   *uuid.UUID `json:"stateId"`
	CadreID   *uuid.UUID `json:"cadreId"`
	CountryID *uuid.UUID `json:"countryId"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DeviceToken is a push token registered by a subscriber's device.
type DeviceToken struct {
	UserID uuid.UUID `json:"userId"`
	Token  string    `json:"token"`
}

// ScopeRef is a populated state or cadre reference ({_id, title}).
type ScopeRef struct {
	ID    uuid.UUID `json:"_id"`
	Title string    `json:"title"`
}

// ScopeFilter selects subscribers by tenant scope. An empty slice means the
// dimension is not filtered.
type ScopeFilter struct {
	StateIDs []uuid.UUID
	CadreIDs []uuid.UUID
}
