// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree holds the hierarchy logic shared by every content family:
// the store contract over a parentId-linked collection, tenant visibility,
// descendant materialization and master node selection.
package tree

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

// ErrCycle is returned when a parentId chain loops back on itself.
var ErrCycle = errors.New("tree: cycle detected")

// ChildLister returns the direct children of a node, in sibling order.
type ChildLister interface {
	Children(ctx context.Context, parentID uuid.UUID) ([]models.TreeNode, error)
}

// Source is what a descendant fetch reads from.
type Source interface {
	ChildLister
	FindByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error)
}

// RootLister returns root nodes matching a query.
type RootLister interface {
	Roots(ctx context.Context, q RootQuery) ([]models.TreeNode, error)
}

// Store is a self-referencing collection of tree nodes. One Store exists per
// content family. Lookups return (nil, nil) when the id does not exist.
type Store interface {
	Source
	RootLister

	Create(ctx context.Context, n *models.TreeNode) (*models.TreeNode, error)
	Update(ctx context.Context, id uuid.UUID, p *models.NodePatch) (*models.TreeNode, error)
	// Delete removes the node only. Children keep their dangling parentId.
	Delete(ctx context.Context, id uuid.UUID) (*models.TreeNode, error)
	All(ctx context.Context) ([]models.TreeNode, error)
	Paginate(ctx context.Context, q PageQuery) (*Page, error)
	MarkInitialNotification(ctx context.Context, id uuid.UUID) error
}

// RootQuery selects root nodes. The zero value returns every root,
// activated or not.
type RootQuery struct {
	ActivatedOnly bool
	// Audience, when set, restricts roots to those visible to the audience.
	Audience *Audience
}

// PageQuery is the admin list filter.
type PageQuery struct {
	Page      int
	Limit     int
	Title     string
	StateIDs  []uuid.UUID
	CadreIDs  []uuid.UUID
	SortBy    string
	SortOrder string
}

// Page is one page of populated nodes plus the unpaged total.
type Page struct {
	Items []models.PopulatedNode
	Total int
}

// Default paging values.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 500
)

// sortColumns whitelists the fields an admin list may be sorted by, mapped
// to their wire names.
var sortColumns = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"index":     true,
	"title":     true,
}

// Normalized returns q with defaults applied and unknown sort keys dropped.
func (q PageQuery) Normalized() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if !sortColumns[q.SortBy] {
		q.SortBy = "createdAt"
	}
	if strings.EqualFold(q.SortOrder, "asc") {
		q.SortOrder = "asc"
	} else {
		q.SortOrder = "desc"
	}
	q.Title = strings.TrimSpace(q.Title)
	return q
}

// Offset returns the number of rows to skip for the query's page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// SortSiblings orders nodes by index, then creation time, then id. Stores
// use the same ordering so in-memory and database traversals agree.
func SortSiblings(nodes []models.TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}
