// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mongostore implements the stores on MongoDB. Documents keep the
// camelCase field names of the mobile backend's collections; ids are uuid
// strings stored in _id.
package mongostore

import (
	"time"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

// nodeDoc is the stored shape of a tree node.
type nodeDoc struct {
	ID                      string            `bson:"_id"`
	LegacyID                *int              `bson:"id,omitempty"`
	ParentID                *string           `bson:"parentId"`
	MasterNodeID            *string           `bson:"masterNodeId,omitempty"`
	RedirectNodeID          *string           `bson:"redirectNodeId,omitempty"`
	RedirectAlgoType        string            `bson:"redirectAlgoType"`
	NodeType                string            `bson:"nodeType"`
	IsExpandable            bool              `bson:"isExpandable"`
	HasOptions              bool              `bson:"hasOptions"`
	TimeSpent               string            `bson:"timeSpent"`
	Header                  string            `bson:"header"`
	SubHeader               string            `bson:"subHeader"`
	Icon                    string            `bson:"icon"`
	Index                   int               `bson:"index"`
	Title                   map[string]string `bson:"title"`
	Description             map[string]string `bson:"description"`
	StateIDs                []string          `bson:"stateIds"`
	IsAllState              bool              `bson:"isAllState"`
	CadreIDs                []string          `bson:"cadreIds"`
	IsAllCadre              bool              `bson:"isAllCadre"`
	Activated               bool              `bson:"activated"`
	SendInitialNotification bool              `bson:"sendInitialNotification"`
	TypeOfMaterials         string            `bson:"typeOfMaterials,omitempty"`
	RelatedMaterials        []string          `bson:"relatedMaterials,omitempty"`
	CreatedAt               time.Time         `bson:"createdAt"`
	UpdatedAt               time.Time         `bson:"updatedAt"`
	DeletedAt               *time.Time        `bson:"deletedAt,omitempty"`
}

func toNodeDoc(n *models.TreeNode) nodeDoc {
	return nodeDoc{
		ID:                      n.ID.String(),
		LegacyID:                n.LegacyID,
		ParentID:                idString(n.ParentID),
		MasterNodeID:            idString(n.MasterNodeID),
		RedirectNodeID:          idString(n.RedirectNodeID),
		RedirectAlgoType:        n.RedirectAlgoType,
		NodeType:                n.NodeType,
		IsExpandable:            n.IsExpandable,
		HasOptions:              n.HasOptions,
		TimeSpent:               n.TimeSpent,
		Header:                  n.Header,
		SubHeader:               n.SubHeader,
		Icon:                    n.Icon,
		Index:                   n.Index,
		Title:                   textMap(n.Title),
		Description:             textMap(n.Description),
		StateIDs:                idStrings(n.StateIDs),
		IsAllState:              n.IsAllState,
		CadreIDs:                idStrings(n.CadreIDs),
		IsAllCadre:              n.IsAllCadre,
		Activated:               n.Activated,
		SendInitialNotification: n.SendInitialNotification,
		TypeOfMaterials:         n.TypeOfMaterials,
		RelatedMaterials:        n.RelatedMaterials,
		CreatedAt:               n.CreatedAt,
		UpdatedAt:               n.UpdatedAt,
		DeletedAt:               n.DeletedAt,
	}
}

func (d *nodeDoc) model() models.TreeNode {
	return models.TreeNode{
		ID:                      parseID(d.ID),
		LegacyID:                d.LegacyID,
		ParentID:                parseIDPtr(d.ParentID),
		MasterNodeID:            parseIDPtr(d.MasterNodeID),
		RedirectNodeID:          parseIDPtr(d.RedirectNodeID),
		RedirectAlgoType:        d.RedirectAlgoType,
		NodeType:                d.NodeType,
		IsExpandable:            d.IsExpandable,
		HasOptions:              d.HasOptions,
		TimeSpent:               d.TimeSpent,
		Header:                  d.Header,
		SubHeader:               d.SubHeader,
		Icon:                    d.Icon,
		Index:                   d.Index,
		Title:                   models.Text(textMap(d.Title)),
		Description:             models.Text(textMap(d.Description)),
		StateIDs:                parseIDs(d.StateIDs),
		IsAllState:              d.IsAllState,
		CadreIDs:                parseIDs(d.CadreIDs),
		IsAllCadre:              d.IsAllCadre,
		Activated:               d.Activated,
		SendInitialNotification: d.SendInitialNotification,
		TypeOfMaterials:         d.TypeOfMaterials,
		RelatedMaterials:        d.RelatedMaterials,
		CreatedAt:               d.CreatedAt,
		UpdatedAt:               d.UpdatedAt,
		DeletedAt:               d.DeletedAt,
	}
}

// scopeDoc is a state or cadre.
type scopeDoc struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	CreatedAt time.Time `bson:"createdAt"`
}

type subscriberDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	StateID   *string   `bson:"stateId"`
	CadreID   *string   `bson:"cadreId"`
	CountryID *string   `bson:"countryId"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d *subscriberDoc) model() models.Subscriber {
	return models.Subscriber{
		ID:        parseID(d.ID),
		Name:      d.Name,
		StateID:   parseIDPtr(d.StateID),
		CadreID:   parseIDPtr(d.CadreID),
		CountryID: parseIDPtr(d.CountryID),
		CreatedAt: d.CreatedAt,
	}
}

type deviceTokenDoc struct {
	UserID    string    `bson:"userId"`
	Token     string    `bson:"token"`
	CreatedAt time.Time `bson:"createdAt"`
}

type notificationDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Type        string    `bson:"type"`
	TypeTitle   string    `bson:"typeTitle"`
	Link        string    `bson:"link"`
	IsDeepLink  bool      `bson:"isDeepLink"`
	UserIDs     []string  `bson:"userId"`
	CreatedBy   string    `bson:"createdBy"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (d *notificationDoc) model() models.Notification {
	return models.Notification{
		ID:          parseID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Type:        models.NotificationType(d.Type),
		TypeTitle:   d.TypeTitle,
		Link:        d.Link,
		IsDeepLink:  d.IsDeepLink,
		UserIDs:     parseIDs(d.UserIDs),
		CreatedBy:   parseID(d.CreatedBy),
		CreatedAt:   d.CreatedAt,
	}
}

type countryDoc struct {
	ID        string            `bson:"_id"`
	Title     map[string]string `bson:"title"`
	CreatedAt time.Time         `bson:"createdAt"`
}

func (d *countryDoc) model() models.Country {
	return models.Country{ID: parseID(d.ID), Title: models.Text(textMap(d.Title)), CreatedAt: d.CreatedAt}
}

// now returns the current time at the precision Mongo stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func textMap(t map[string]string) map[string]string {
	if t == nil {
		return map[string]string{}
	}
	return t
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseID tolerates malformed stored ids by returning uuid.Nil.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseIDPtr(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func parseIDs(ss []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
