package tree

import (
	"context"
	"fmt"

	"nikshay/internal/i18n"
	"nikshay/internal/models"
)

// Selector picks the master (root) nodes shown to a caller.
type Selector struct {
	roots RootLister
}

// NewSelector returns a Selector over roots.
func NewSelector(roots RootLister) *Selector {
	return &Selector{roots: roots}
}

// ForAudience returns the activated roots visible to a, translated for lang.
func (s *Selector) ForAudience(ctx context.Context, a Audience, lang string) ([]models.TreeNode, error) {
	nodes, err := s.roots.Roots(ctx, RootQuery{ActivatedOnly: true, Audience: &a})
	if err != nil {
		return nil, fmt.Errorf("select master nodes (%s): %w", a.Mode(), err)
	}
	return i18n.TranslateAll(nodes, lang), nil
}

// All returns every root node, activated or not, untranslated.
func (s *Selector) All(ctx context.Context) ([]models.TreeNode, error) {
	nodes, err := s.roots.Roots(ctx, RootQuery{})
	if err != nil {
		return nil, fmt.Errorf("select all master nodes: %w", err)
	}
	if nodes == nil {
		nodes = []models.TreeNode{}
	}
	return nodes, nil
}
