// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"slices"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

// Mode is the visibility rule applied for an audience.
type Mode int

const (
	// ModeCadreOnly checks cadre membership and ignores state.
	ModeCadreOnly Mode = iota + 1
	// ModeCombined requires both a state match and a cadre match.
	ModeCombined
)

func (m Mode) String() string {
	switch m {
	case ModeCadreOnly:
		return "cadre_only"
	case ModeCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// Audience is the tenant scope of the subscriber asking for content.
type Audience struct {
	StateID *uuid.UUID
	CadreID *uuid.UUID
}

// AudienceOf builds the audience for a subscriber. A missing subscriber
// yields the empty audience, which only sees nodes open to all states and
// all cadres.
func AudienceOf(s *models.Subscriber) Audience {
	if s == nil {
		return Audience{}
	}
	return Audience{StateID: s.StateID, CadreID: s.CadreID}
}

// Mode returns ModeCadreOnly when the subscriber has a state and
// ModeCombined when it does not.
//
// NOTE: this reads inverted (subscribers with a state skip the state check)
// but it is the behaviour existing clients see, so it is kept as is.
func (a Audience) Mode() Mode {
	if a.StateID != nil {
		return ModeCadreOnly
	}
	return ModeCombined
}

// Admits reports whether the node's state/cadre scope lets the audience see
// it. It does not look at activation or parentage; see IsVisible.
func (a Audience) Admits(n *models.TreeNode) bool {
	cadreOK := n.IsAllCadre || containsID(n.CadreIDs, a.CadreID)
	if a.Mode() == ModeCadreOnly {
		return cadreOK
	}
	stateOK := n.IsAllState || containsID(n.StateIDs, a.StateID)
	return stateOK && cadreOK
}

// IsVisible reports whether n belongs in the audience's master node list:
// it must be an activated root admitted by the audience's scope.
func IsVisible(n *models.TreeNode, a Audience) bool {
	if !n.Activated || n.ParentID != nil {
		return false
	}
	return a.Admits(n)
}

// Matches reports whether a root satisfies q. Stores that filter in memory
// use it; database stores express the same rule in their query language.
func (q RootQuery) Matches(n *models.TreeNode) bool {
	if n.ParentID != nil {
		return false
	}
	if q.ActivatedOnly && !n.Activated {
		return false
	}
	if q.Audience != nil {
		return IsVisible(n, *q.Audience)
	}
	return true
}

func containsID(ids []uuid.UUID, id *uuid.UUID) bool {
	if id == nil {
		return false
	}
	return slices.Contains(ids, *id)
}
