// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TreeNode is one node of a self-referencing content tree. Every algorithm
// family and the resource material library share this shape. A nil ParentID
// marks a root ("master") node.
type TreeNode struct {
	ID               uuid.UUID   `json:"_id"`
	LegacyID         *int        `json:"id,omitempty"`
	ParentID         *uuid.UUID  `json:"parentId"`
	MasterNodeID     *uuid.UUID  `json:"masterNodeId,omitempty"`
	RedirectNodeID   *uuid.UUID  `json:"redirectNodeId,omitempty"`
	RedirectAlgoType string      `json:"redirectAlgoType,omitempty"`
	NodeType         string      `json:"nodeType,omitempty"`
	IsExpandable     bool        `json:"isExpandable"`
	HasOptions       bool        `json:"hasOptions"`
	TimeSpent        string      `json:"timeSpent,omitempty"`
	Header           string      `json:"header,omitempty"`
	SubHeader        string      `json:"subHeader,omitempty"`
	Icon             string      `json:"icon,omitempty"`
	Index            int         `json:"index"`
	Title            Text        `json:"title"`
	Description      Text        `json:"description"`
	StateIDs         []uuid.UUID `json:"stateIds"`
	IsAllState       bool        `json:"isAllState"`
	CadreIDs         []uuid.UUID `json:"cadreIds"`
	IsAllCadre       bool        `json:"isAllCadre"`
	Activated        bool        `json:"activated"`

	SendInitialNotification bool `json:"sendInitialNotification"`

	// Resource material only.
	TypeOfMaterials  string   `json:"typeOfMaterials,omitempty"`
	RelatedMaterials []string `json:"relatedMaterials,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n *TreeNode) IsRoot() bool {
	return n.ParentID == nil
}

// NodePatch is a partial update. Nil fields are left untouched; a set field
// replaces the stored value as a whole (localized maps are not deep-merged).
type NodePatch struct {
	LegacyID         *int
	ParentID         *uuid.UUID
	ClearParent      bool
	MasterNodeID     *uuid.UUID
	RedirectNodeID   *uuid.UUID
	RedirectAlgoType *string
	NodeType         *string
	IsExpandable     *bool
	HasOptions       *bool
	TimeSpent        *string
	Header           *string
	SubHeader        *string
	Icon             *string
	Index            *int
	Title            Text
	Description      Text
	StateIDs         []uuid.UUID
	IsAllState       *bool
	CadreIDs         []uuid.UUID
	IsAllCadre       *bool
	Activated        *bool
	TypeOfMaterials  *string
	RelatedMaterials []string
}

// Apply merges the patch into n and returns the result. Used by stores that
// update by read-modify-write and by tests.
func (p *NodePatch) Apply(n TreeNode) TreeNode {
	if p.LegacyID != nil {
		n.LegacyID = p.LegacyID
	}
	if p.ClearParent {
		n.ParentID = nil
	} else if p.ParentID != nil {
		n.ParentID = p.ParentID
	}
	if p.MasterNodeID != nil {
		n.MasterNodeID = p.MasterNodeID
	}
	if p.RedirectNodeID != nil {
		n.RedirectNodeID = p.RedirectNodeID
	}
	setString(&n.RedirectAlgoType, p.RedirectAlgoType)
	setString(&n.NodeType, p.NodeType)
	setBool(&n.IsExpandable, p.IsExpandable)
	setBool(&n.HasOptions, p.HasOptions)
	setString(&n.TimeSpent, p.TimeSpent)
	setString(&n.Header, p.Header)
	setString(&n.SubHeader, p.SubHeader)
	setString(&n.Icon, p.Icon)
	if p.Index != nil {
		n.Index = *p.Index
	}
	if p.Title != nil {
		n.Title = p.Title
	}
	if p.Description != nil {
		n.Description = p.Description
	}
	if p.StateIDs != nil {
		n.StateIDs = p.StateIDs
	}
	setBool(&n.IsAllState, p.IsAllState)
	if p.CadreIDs != nil {
		n.CadreIDs = p.CadreIDs
	}
	setBool(&n.IsAllCadre, p.IsAllCadre)
	setBool(&n.Activated, p.Activated)
	setString(&n.TypeOfMaterials, p.TypeOfMaterials)
	if p.RelatedMaterials != nil {
		n.RelatedMaterials = p.RelatedMaterials
	}
	return n
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Branch is a node rendered with its materialized children. Children exist
// only for the duration of one descendant fetch and are never stored.
type Branch struct {
	TreeNode
	Children []Branch `json:"children"`
}

// Subtree is the composed shape returned for a single root lookup.
type Subtree struct {
	ID          uuid.UUID `json:"_id"`
	Title       Text      `json:"title"`
	Description Text      `json:"description"`
	Children    []Branch  `json:"children"`
}

// PopulatedNode is a node whose state and cadre references are expanded to
// {_id, title} pairs, as returned by admin list pages.
type PopulatedNode struct {
	TreeNode
	StateIDs []ScopeRef `json:"stateIds"`
	CadreIDs []ScopeRef `json:"cadreIds"`
}
