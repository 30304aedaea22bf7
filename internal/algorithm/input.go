// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package algorithm

import (
	"encoding/json"

	"github.com/google/uuid"

	"nikshay/internal/models"
	"nikshay/internal/tree"
)

// NodeInput is the body of a create request. References arrive as strings
// and are coerced to ids before reaching the store.
type NodeInput struct {
	LegacyID         *int        `json:"id"`
	ParentID         *string     `json:"parentId"`
	MasterNodeID     *string     `json:"masterNodeId"`
	RedirectNodeID   *string     `json:"redirectNodeId"`
	RedirectAlgoType string      `json:"redirectAlgoType" validate:"max=100"`
	NodeType         string      `json:"nodeType" validate:"max=100"`
	IsExpandable     bool        `json:"isExpandable"`
	HasOptions       bool        `json:"hasOptions"`
	TimeSpent        string      `json:"timeSpent" validate:"max=100"`
	Header           string      `json:"header"`
	SubHeader        string      `json:"subHeader"`
	Icon             string      `json:"icon"`
	Index            int         `json:"index" validate:"gte=0"`
	Title            models.Text `json:"title" validate:"en_required"`
	Description      models.Text `json:"description"`
	StateIDs         []string    `json:"stateIds"`
	IsAllState       bool        `json:"isAllState"`
	CadreIDs         []string    `json:"cadreIds"`
	IsAllCadre       bool        `json:"isAllCadre"`
	Activated        *bool       `json:"activated"`
	TypeOfMaterials  string      `json:"typeOfMaterials" validate:"max=100"`
	RelatedMaterials []string    `json:"relatedMaterials"`
}

// NullableID tells an absent JSON key apart from an explicit null.
type NullableID struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records that the key was present.
func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// PatchInput is the body of an update request. Absent fields are left as is.
type PatchInput struct {
	LegacyID         *int        `json:"id"`
	ParentID         NullableID  `json:"parentId"`
	MasterNodeID     *string     `json:"masterNodeId"`
	RedirectNodeID   *string     `json:"redirectNodeId"`
	RedirectAlgoType *string     `json:"redirectAlgoType" validate:"omitempty,max=100"`
	NodeType         *string     `json:"nodeType" validate:"omitempty,max=100"`
	IsExpandable     *bool       `json:"isExpandable"`
	HasOptions       *bool       `json:"hasOptions"`
	TimeSpent        *string     `json:"timeSpent" validate:"omitempty,max=100"`
	Header           *string     `json:"header"`
	SubHeader        *string     `json:"subHeader"`
	Icon             *string     `json:"icon"`
	Index            *int        `json:"index" validate:"omitempty,gte=0"`
	Title            models.Text `json:"title" validate:"omitempty,en_required"`
	Description      models.Text `json:"description"`
	StateIDs         []string    `json:"stateIds"`
	IsAllState       *bool       `json:"isAllState"`
	CadreIDs         []string    `json:"cadreIds"`
	IsAllCadre       *bool       `json:"isAllCadre"`
	Activated        *bool       `json:"activated"`
	TypeOfMaterials  *string     `json:"typeOfMaterials" validate:"omitempty,max=100"`
	RelatedMaterials []string    `json:"relatedMaterials"`
}

// ListQuery is the admin list filter as read from the query string.
type ListQuery struct {
	Page      int
	Limit     int
	Title     string
	StateIDs  []string
	CadreIDs  []string
	SortBy    string
	SortOrder string
}

// refs holds the coerced references shared by create and update.
type refs struct {
	master   *uuid.UUID
	redirect *uuid.UUID
	states   []uuid.UUID
	cadres   []uuid.UUID
}

func coerceRefs(master, redirect *string, states, cadres []string) (refs, error) {
	var r refs
	var err error
	if r.master, err = models.ParseOptionalID(master); err != nil {
		return r, err
	}
	if r.redirect, err = models.ParseOptionalID(redirect); err != nil {
		return r, err
	}
	if r.states, err = models.ParseIDs(states); err != nil {
		return r, err
	}
	if r.cadres, err = models.ParseIDs(cadres); err != nil {
		return r, err
	}
	return r, nil
}

// node converts a create body into a node. Activated defaults to true and
// nil id lists become empty ones.
func (in *NodeInput) node() (*models.TreeNode, error) {
	parent, err := models.ParseOptionalID(in.ParentID)
	if err != nil {
		return nil, err
	}
	r, err := coerceRefs(in.MasterNodeID, in.RedirectNodeID, in.StateIDs, in.CadreIDs)
	if err != nil {
		return nil, err
	}
	if r.states == nil {
		r.states = []uuid.UUID{}
	}
	if r.cadres == nil {
		r.cadres = []uuid.UUID{}
	}

	activated := true
	if in.Activated != nil {
		activated = *in.Activated
	}

	title := in.Title
	if title == nil {
		title = models.Text{}
	}
	desc := in.Description
	if desc == nil {
		desc = models.Text{}
	}

	return &models.TreeNode{
		LegacyID:         in.LegacyID,
		ParentID:         parent,
		MasterNodeID:     r.master,
		RedirectNodeID:   r.redirect,
		RedirectAlgoType: in.RedirectAlgoType,
		NodeType:         in.NodeType,
		IsExpandable:     in.IsExpandable,
		HasOptions:       in.HasOptions,
		TimeSpent:        in.TimeSpent,
		Header:           in.Header,
		SubHeader:        in.SubHeader,
		Icon:             in.Icon,
		Index:            in.Index,
		Title:            title,
		Description:      desc,
		StateIDs:         r.states,
		IsAllState:       in.IsAllState,
		CadreIDs:         r.cadres,
		IsAllCadre:       in.IsAllCadre,
		Activated:        activated,
		TypeOfMaterials:  in.TypeOfMaterials,
		RelatedMaterials: in.RelatedMaterials,
	}, nil
}

// patch converts an update body into a store patch. An explicit null or
// empty parentId clears the parent.
func (in *PatchInput) patch() (*models.NodePatch, error) {
	p := &models.NodePatch{
		LegacyID:         in.LegacyID,
		RedirectAlgoType: in.RedirectAlgoType,
		NodeType:         in.NodeType,
		IsExpandable:     in.IsExpandable,
		HasOptions:       in.HasOptions,
		TimeSpent:        in.TimeSpent,
		Header:           in.Header,
		SubHeader:        in.SubHeader,
		Icon:             in.Icon,
		Index:            in.Index,
		Title:            in.Title,
		Description:      in.Description,
		IsAllState:       in.IsAllState,
		IsAllCadre:       in.IsAllCadre,
		Activated:        in.Activated,
		TypeOfMaterials:  in.TypeOfMaterials,
		RelatedMaterials: in.RelatedMaterials,
	}

	if in.ParentID.Set {
		parent, err := models.ParseOptionalID(in.ParentID.Value)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			p.ClearParent = true
		} else {
			p.ParentID = parent
		}
	}

	r, err := coerceRefs(in.MasterNodeID, in.RedirectNodeID, in.StateIDs, in.CadreIDs)
	if err != nil {
		return nil, err
	}
	p.MasterNodeID = r.master
	p.RedirectNodeID = r.redirect
	p.StateIDs = r.states
	p.CadreIDs = r.cadres
	return p, nil
}

func (q ListQuery) pageQuery() (tree.PageQuery, error) {
	states, err := models.ParseIDs(q.StateIDs)
	if err != nil {
		return tree.PageQuery{}, err
	}
	cadres, err := models.ParseIDs(q.CadreIDs)
	if err != nil {
		return tree.PageQuery{}, err
	}
	return tree.PageQuery{
		Page:      q.Page,
		Limit:     q.Limit,
		Title:     q.Title,
		StateIDs:  states,
		CadreIDs:  cadres,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}.Normalized(), nil
}
