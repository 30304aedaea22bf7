// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"context"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

// Arena is an in-memory snapshot of one family's nodes, indexed by id and by
// parent. It is built from a single read so whole-forest dumps do not issue
// one query per node.
type Arena struct {
	nodes    map[uuid.UUID]models.TreeNode
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

// NewArena indexes a flat node list. Nodes whose parent is absent from the
// list are kept but are reachable only by id.
func NewArena(flat []models.TreeNode) *Arena {
	sorted := make([]models.TreeNode, len(flat))
	copy(sorted, flat)
	SortSiblings(sorted)

	a := &Arena{
		nodes:    make(map[uuid.UUID]models.TreeNode, len(sorted)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, n := range sorted {
		a.nodes[n.ID] = n
		if n.ParentID == nil {
			a.roots = append(a.roots, n.ID)
			continue
		}
		a.children[*n.ParentID] = append(a.children[*n.ParentID], n.ID)
	}
	return a
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// FindByID returns the node with the given id, or nil.
func (a *Arena) FindByID(_ context.Context, id uuid.UUID) (*models.TreeNode, error) {
	n, ok := a.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// Children returns the direct children of parentID in sibling order.
func (a *Arena) Children(_ context.Context, parentID uuid.UUID) ([]models.TreeNode, error) {
	ids := a.children[parentID]
	out := make([]models.TreeNode, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.nodes[id])
	}
	return out, nil
}

// Roots returns the roots matching q in sibling order.
func (a *Arena) Roots(_ context.Context, q RootQuery) ([]models.TreeNode, error) {
	var out []models.TreeNode
	for _, id := range a.roots {
		n := a.nodes[id]
		if q.Matches(&n) {
			out = append(out, n)
		}
	}
	return out, nil
}
