// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nikshay/internal/i18n"
	"nikshay/internal/models"
)

// Fetcher materializes subtrees from a Source. Traversal is sequential and
// depth first: a child's whole subtree is built before its next sibling is
// read. Every node seen is recorded, so a parentId loop fails with ErrCycle
// instead of recursing forever.
type Fetcher struct {
	src Source
}

// NewFetcher returns a Fetcher reading from src.
func NewFetcher(src Source) *Fetcher {
	return &Fetcher{src: src}
}

// Descendants returns the fully materialized children of id with title and
// description resolved for lang at every level. A node without children
// yields an empty, non-nil slice.
func (f *Fetcher) Descendants(ctx context.Context, id uuid.UUID, lang string) ([]models.Branch, error) {
	visited := map[uuid.UUID]struct{}{id: {}}
	return f.descend(ctx, id, lang, visited)
}

func (f *Fetcher) descend(ctx context.Context, id uuid.UUID, lang string, visited map[uuid.UUID]struct{}) ([]models.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kids, err := f.src.Children(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("children of %s: %w", id, err)
	}

	out := make([]models.Branch, 0, len(kids))
	for _, kid := range kids {
		if _, seen := visited[kid.ID]; seen {
			return nil, fmt.Errorf("%w: node %s reached twice", ErrCycle, kid.ID)
		}
		visited[kid.ID] = struct{}{}

		sub, err := f.descend(ctx, kid.ID, lang, visited)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Branch{
			TreeNode: i18n.Translate(kid, lang),
			Children: sub,
		})
	}
	return out, nil
}

// Subtree resolves the node id and attaches its descendants. It returns
// (nil, nil) when the id does not exist.
func (f *Fetcher) Subtree(ctx context.Context, id uuid.UUID, lang string) (*models.Subtree, error) {
	root, err := f.src.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find root %s: %w", id, err)
	}
	if root == nil {
		return nil, nil
	}
	return f.compose(ctx, root, lang)
}

// Forest materializes the subtree of every activated root. Roots that fail
// to resolve are skipped.
func (f *Fetcher) Forest(ctx context.Context, roots RootLister, lang string) ([]models.Subtree, error) {
	nodes, err := roots.Roots(ctx, RootQuery{ActivatedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list roots: %w", err)
	}

	out := make([]models.Subtree, 0, len(nodes))
	for i := range nodes {
		st, err := f.compose(ctx, &nodes[i], lang)
		if err != nil {
			return nil, err
		}
		if st != nil {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (f *Fetcher) compose(ctx context.Context, root *models.TreeNode, lang string) (*models.Subtree, error) {
	children, err := f.Descendants(ctx, root.ID, lang)
	if err != nil {
		return nil, err
	}
	return &models.Subtree{
		ID:          root.ID,
		Title:       i18n.Resolve(root.Title, lang),
		Description: i18n.Resolve(root.Description, lang),
		Children:    children,
	}, nil
}
