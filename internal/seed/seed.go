// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed loads development fixtures into a fresh store. Fixtures are
// YAML; scope references are written as titles and resolved to ids while
// loading.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"nikshay/internal/models"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the decoded fixture file.
type Fixtures struct {
	States      []string            `yaml:"states"`
	Cadres      []string            `yaml:"cadres"`
	Countries   []CountryFixture    `yaml:"countries"`
	Subscribers []SubscriberFixture `yaml:"subscribers"`
	// Trees maps a family path to its root nodes.
	Trees map[string][]NodeFixture `yaml:"trees"`
}

type CountryFixture struct {
	Title map[string]string `yaml:"title"`
}

type SubscriberFixture struct {
	Name    string   `yaml:"name"`
	State   string   `yaml:"state"`
	Cadre   string   `yaml:"cadre"`
	Country string   `yaml:"country"`
	Tokens  []string `yaml:"tokens"`
}

// NodeFixture is one tree node and its children, in sibling order.
type NodeFixture struct {
	Title            map[string]string `yaml:"title"`
	Description      map[string]string `yaml:"description"`
	NodeType         string            `yaml:"nodeType"`
	Index            int               `yaml:"index"`
	States           []string          `yaml:"states"`
	Cadres           []string          `yaml:"cadres"`
	AllStates        bool              `yaml:"allStates"`
	AllCadres        bool              `yaml:"allCadres"`
	Activated        *bool             `yaml:"activated"`
	TypeOfMaterials  string            `yaml:"typeOfMaterials"`
	RelatedMaterials []string          `yaml:"relatedMaterials"`
	Children         []NodeFixture     `yaml:"children"`
}

// Parse decodes a fixture file.
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// Default returns the fixtures embedded in the binary.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// ScopeStore creates and finds state or cadre entries.
type ScopeStore interface {
	Create(ctx context.Context, title string) (*models.ScopeRef, error)
	FindByTitle(ctx context.Context, title string) (*models.ScopeRef, error)
}

type CountryCreator interface {
	Create(ctx context.Context, c *models.Country) (*models.Country, error)
}

type SubscriberCreator interface {
	Create(ctx context.Context, s *models.Subscriber) (*models.Subscriber, error)
}

type TokenAdder interface {
	Add(ctx context.Context, t models.DeviceToken) error
}

type NodeCreator interface {
	Create(ctx context.Context, n *models.TreeNode) (*models.TreeNode, error)
}

// Targets are the stores fixtures are written to. Trees is keyed by
// family path; fixture trees for families without a target are an error.
type Targets struct {
	States      ScopeStore
	Cadres      ScopeStore
	Countries   CountryCreator
	Subscribers SubscriberCreator
	Tokens      TokenAdder
	Trees       map[string]NodeCreator
}

// Stats counts what a Run created.
type Stats struct {
	States      int
	Cadres      int
	Countries   int
	Subscribers int
	Tokens      int
	Nodes       int
}

// loader carries the title -> id lookups while a Run is in progress.
type loader struct {
	t         Targets
	states    map[string]uuid.UUID
	cadres    map[string]uuid.UUID
	countries map[string]uuid.UUID
	stats     Stats
}

// Run writes f to t. It is a no-op when the first fixture state already
// exists, so running it twice does not duplicate data.
func Run(ctx context.Context, t Targets, f *Fixtures) (*Stats, error) {
	if len(f.States) > 0 {
		existing, err := t.States.FindByTitle(ctx, f.States[0])
		if err != nil {
			return nil, fmt.Errorf("seed check states: %w", err)
		}
		if existing != nil {
			slog.Info("store already seeded, skipping")
			return &Stats{}, nil
		}
	}

	l := &loader{
		t:         t,
		states:    map[string]uuid.UUID{},
		cadres:    map[string]uuid.UUID{},
		countries: map[string]uuid.UUID{},
	}
	if err := l.scopes(ctx, f); err != nil {
		return nil, err
	}
	if err := l.subscribers(ctx, f.Subscribers); err != nil {
		return nil, err
	}
	for path, roots := range f.Trees {
		store, ok := t.Trees[path]
		if !ok {
			return nil, fmt.Errorf("seed %s: unknown family", path)
		}
		for _, root := range roots {
			if err := l.node(ctx, store, path, nil, root); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("store seeded",
		"states", l.stats.States,
		"cadres", l.stats.Cadres,
		"countries", l.stats.Countries,
		"subscribers", l.stats.Subscribers,
		"tokens", l.stats.Tokens,
		"nodes", l.stats.Nodes,
	)
	return &l.stats, nil
}

func (l *loader) scopes(ctx context.Context, f *Fixtures) error {
	for _, title := range f.States {
		ref, err := l.t.States.Create(ctx, title)
		if err != nil {
			return fmt.Errorf("seed state %q: %w", title, err)
		}
		l.states[title] = ref.ID
		l.stats.States++
	}
	for _, title := range f.Cadres {
		ref, err := l.t.Cadres.Create(ctx, title)
		if err != nil {
			return fmt.Errorf("seed cadre %q: %w", title, err)
		}
		l.cadres[title] = ref.ID
		l.stats.Cadres++
	}
	for _, cf := range f.Countries {
		c, err := l.t.Countries.Create(ctx, &models.Country{Title: models.Text(cf.Title)})
		if err != nil {
			return fmt.Errorf("seed country %q: %w", cf.Title[models.DefaultLang], err)
		}
		l.countries[cf.Title[models.DefaultLang]] = c.ID
		l.stats.Countries++
	}
	return nil
}

func (l *loader) subscribers(ctx context.Context, subs []SubscriberFixture) error {
	for _, sf := range subs {
		sub := &models.Subscriber{Name: sf.Name}
		var err error
		if sub.StateID, err = lookup(l.states, "state", sf.State); err != nil {
			return fmt.Errorf("seed subscriber %q: %w", sf.Name, err)
		}
		if sub.CadreID, err = lookup(l.cadres, "cadre", sf.Cadre); err != nil {
			return fmt.Errorf("seed subscriber %q: %w", sf.Name, err)
		}
		if sub.CountryID, err = lookup(l.countries, "country", sf.Country); err != nil {
			return fmt.Errorf("seed subscriber %q: %w", sf.Name, err)
		}

		created, err := l.t.Subscribers.Create(ctx, sub)
		if err != nil {
			return fmt.Errorf("seed subscriber %q: %w", sf.Name, err)
		}
		l.stats.Subscribers++

		for _, tok := range sf.Tokens {
			if err := l.t.Tokens.Add(ctx, models.DeviceToken{UserID: created.ID, Token: tok}); err != nil {
				return fmt.Errorf("seed device token: %w", err)
			}
			l.stats.Tokens++
		}
	}
	return nil
}

// node creates nf under parent, then its children. The root's id becomes
// the masterNodeId of every descendant.
func (l *loader) node(ctx context.Context, store NodeCreator, path string, parent *models.TreeNode, nf NodeFixture) error {
	states, err := lookupAll(l.states, "state", nf.States)
	if err != nil {
		return fmt.Errorf("seed %s node: %w", path, err)
	}
	cadres, err := lookupAll(l.cadres, "cadre", nf.Cadres)
	if err != nil {
		return fmt.Errorf("seed %s node: %w", path, err)
	}

	n := &models.TreeNode{
		NodeType:         nf.NodeType,
		Index:            nf.Index,
		Title:            models.Text(nf.Title),
		Description:      models.Text(nf.Description),
		StateIDs:         states,
		IsAllState:       nf.AllStates,
		CadreIDs:         cadres,
		IsAllCadre:       nf.AllCadres,
		Activated:        nf.Activated == nil || *nf.Activated,
		IsExpandable:     len(nf.Children) > 0,
		TypeOfMaterials:  nf.TypeOfMaterials,
		RelatedMaterials: nf.RelatedMaterials,
	}
	if parent != nil {
		n.ParentID = &parent.ID
		n.MasterNodeID = parent.MasterNodeID
		if n.MasterNodeID == nil {
			n.MasterNodeID = &parent.ID
		}
	}

	created, err := store.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("seed %s node %q: %w", path, nf.Title[models.DefaultLang], err)
	}
	l.stats.Nodes++

	for _, child := range nf.Children {
		if err := l.node(ctx, store, path, created, child); err != nil {
			return err
		}
	}
	return nil
}

func lookup(ids map[string]uuid.UUID, kind, title string) (*uuid.UUID, error) {
	if title == "" {
		return nil, nil
	}
	id, ok := ids[title]
	if !ok {
		return nil, fmt.Errorf("unknown %s %q", kind, title)
	}
	return &id, nil
}

func lookupAll(ids map[string]uuid.UUID, kind string, titles []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(titles))
	for _, title := range titles {
		id, err := lookup(ids, kind, title)
		if err != nil {
			return nil, err
		}
		out = append(out, *id)
	}
	return out, nil
}
