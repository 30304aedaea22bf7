// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package algorithm implements the tree service shared by every content
// family. One Service is created per family, bound to that family's store.
package algorithm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"nikshay/internal/cache"
	"nikshay/internal/family"
	"nikshay/internal/i18n"
	"nikshay/internal/metrics"
	"nikshay/internal/models"
	"nikshay/internal/notify"
	"nikshay/internal/response"
	"nikshay/internal/tree"
)

// ErrNotFound is returned when an operation needs a node that does not exist.
var ErrNotFound = errors.New("node not found")

// SubscriberFinder reads subscribers for visibility and recipient lookups.
type SubscriberFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error)
	IDsInScope(ctx context.Context, f models.ScopeFilter) ([]uuid.UUID, error)
}

// TokenFinder returns the device tokens registered by a set of users.
type TokenFinder interface {
	TokensFor(ctx context.Context, userIDs []uuid.UUID) ([]string, error)
}

// NotificationCreator persists notification records.
type NotificationCreator interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
}

// TreeCache caches materialized trees. Implementations treat every failure
// as a miss.
type TreeCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	InvalidateFamily(ctx context.Context, familyPath string)
}

// Deps are the collaborators a Service needs besides its store. Cache and
// Metrics are optional.
type Deps struct {
	Subscribers   SubscriberFinder
	Tokens        TokenFinder
	Notifications NotificationCreator
	Queue         notify.Queue
	Links         *notify.LinkBuilder
	Cache         TreeCache
	Metrics       *metrics.Metrics
}

// Service is the tree service of one content family.
type Service struct {
	fam      family.Family
	store    tree.Store
	fetcher  *tree.Fetcher
	selector *tree.Selector
	deps     Deps
}

// New creates the service for fam backed by store.
func New(fam family.Family, store tree.Store, deps Deps) *Service {
	return &Service{
		fam:      fam,
		store:    store,
		fetcher:  tree.NewFetcher(store),
		selector: tree.NewSelector(store),
		deps:     deps,
	}
}

// Family returns the family the service serves.
func (s *Service) Family() family.Family {
	return s.fam
}

// Create stores a new node.
func (s *Service) Create(ctx context.Context, in NodeInput) (*response.Envelope, error) {
	n, err := in.node()
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create %s node: %w", s.fam.Path, err)
	}
	s.invalidate(ctx)
	slog.Info("tree node created", "family", s.fam.Path, "id", created.ID)
	return response.Created(s.fam.Message("Created"), created), nil
}

// FindAll returns one page of nodes with state and cadre references expanded.
func (s *Service) FindAll(ctx context.Context, lq ListQuery) (*response.Page, error) {
	q, err := lq.pageQuery()
	if err != nil {
		return nil, err
	}
	page, err := s.store.Paginate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s nodes: %w", s.fam.Path, err)
	}
	items := page.Items
	if items == nil {
		items = []models.PopulatedNode{}
	}
	return response.NewPage(s.fam.Message("List Fetched"), items, page.Total, q.Page, q.Limit), nil
}

// FindOne returns the node with the given id. A missing node yields an
// envelope with null data.
func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*response.Envelope, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find %s node: %w", s.fam.Path, err)
	}
	return response.OK(s.fam.Message("Fetched"), nodeOrNil(n)), nil
}

// Update applies a partial update. A missing node yields null data.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in PatchInput) (*response.Envelope, error) {
	p, err := in.patch()
	if err != nil {
		return nil, err
	}
	n, err := s.store.Update(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("update %s node: %w", s.fam.Path, err)
	}
	s.invalidate(ctx)
	return response.OK(s.fam.Message("Updated"), nodeOrNil(n)), nil
}

// Remove hard-deletes a node. Its children are left pointing at it.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (*response.Envelope, error) {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete %s node: %w", s.fam.Path, err)
	}
	s.invalidate(ctx)
	if n != nil {
		slog.Info("tree node deleted", "family", s.fam.Path, "id", id)
	}
	return response.OK(s.fam.Message("Deleted"), nodeOrNil(n)), nil
}

// GetChild materializes the subtree under id, translated to lang. It
// returns a nil envelope when the node does not exist; callers render
// that as an empty list.
func (s *Service) GetChild(ctx context.Context, id uuid.UUID, lang string) (*response.Envelope, error) {
	lang = i18n.Normalize(lang)
	key := cache.TreeKey(s.fam.Path, "child", lang, id.String())

	var sub *models.Subtree
	if !s.cached(ctx, key, &sub) {
		var err error
		sub, err = s.fetcher.Subtree(ctx, id, lang)
		if err != nil {
			return nil, s.fetchError(err, id)
		}
		if sub == nil {
			return nil, nil
		}
		s.remember(ctx, key, sub)
	}
	return response.OK(s.fam.Message("Fetched"), sub), nil
}

// GetAllDescendants materializes every activated root with its descendants.
// The family is read once and traversed in memory.
func (s *Service) GetAllDescendants(ctx context.Context, lang string) (*response.Envelope, error) {
	lang = i18n.Normalize(lang)
	key := cache.TreeKey(s.fam.Path, "forest", lang)

	var forest []models.Subtree
	if !s.cached(ctx, key, &forest) {
		all, err := s.store.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s nodes: %w", s.fam.Path, err)
		}
		arena := tree.NewArena(all)
		forest, err = tree.NewFetcher(arena).Forest(ctx, arena, lang)
		if err != nil {
			return nil, s.fetchError(err, uuid.Nil)
		}
		s.remember(ctx, key, forest)
	}
	if forest == nil {
		forest = []models.Subtree{}
	}
	return response.OK(s.fam.Message("Fetched"), forest), nil
}

// GetMasterNode lists the roots the subscriber may see, translated to lang.
func (s *Service) GetMasterNode(ctx context.Context, userID uuid.UUID, lang string) (*response.Envelope, error) {
	sub, err := s.deps.Subscribers.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	if sub == nil {
		slog.Warn("master nodes requested by unknown subscriber", "family", s.fam.Path, "user_id", userID)
	}
	roots, err := s.selector.ForAudience(ctx, tree.AudienceOf(sub), i18n.Normalize(lang))
	if err != nil {
		return nil, fmt.Errorf("list %s master nodes: %w", s.fam.Path, err)
	}
	return response.OK(s.fam.Message("Fetched"), roots), nil
}

// GetMasterNodes lists every root, untranslated, for administrators.
func (s *Service) GetMasterNodes(ctx context.Context) (*response.Envelope, error) {
	roots, err := s.selector.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s master nodes: %w", s.fam.Path, err)
	}
	return response.OK(s.fam.Message("Fetched"), roots), nil
}

// BuildQuery converts a node's tenant scope into a subscriber filter. The
// state and cadre filters are decided independently; an "all" flag or an
// empty list leaves that dimension unfiltered.
func BuildQuery(n *models.TreeNode) models.ScopeFilter {
	var f models.ScopeFilter
	if !n.IsAllCadre && len(n.CadreIDs) > 0 {
		f.CadreIDs = n.CadreIDs
	}
	if !n.IsAllState && len(n.StateIDs) > 0 {
		f.StateIDs = n.StateIDs
	}
	return f
}

// SendInitialInvitation notifies every subscriber in the node's scope.
// When at least one device token exists a notification is stored and
// queued once; the delivery worker sets the node's flag. When none exist
// the flag is set right away and a nil envelope is returned.
func (s *Service) SendInitialInvitation(ctx context.Context, id, adminID uuid.UUID) (*response.Envelope, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find %s node: %w", s.fam.Path, err)
	}
	if n == nil {
		return nil, ErrNotFound
	}

	userIDs, err := s.deps.Subscribers.IDsInScope(ctx, BuildQuery(n))
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	var tokens []string
	if len(userIDs) > 0 {
		if tokens, err = s.deps.Tokens.TokensFor(ctx, userIDs); err != nil {
			return nil, fmt.Errorf("resolve device tokens: %w", err)
		}
	}

	if len(tokens) == 0 {
		if err := s.store.MarkInitialNotification(ctx, id); err != nil {
			return nil, fmt.Errorf("mark %s node notified: %w", s.fam.Path, err)
		}
		s.invalidate(ctx)
		s.deps.Metrics.RecordNotification(s.fam.Path, metrics.OutcomeNoRecipient)
		slog.Info("initial notification skipped, no device tokens", "family", s.fam.Path, "id", id)
		return nil, nil
	}

	title, _ := n.Title.Lookup(models.DefaultLang)
	body, _ := n.Description.Lookup(models.DefaultLang)
	link := s.deps.Links.Node(s.fam, n.ID)

	record, err := s.deps.Notifications.Create(ctx, &models.Notification{
		Title:       title,
		Description: body,
		Type:        models.NotificationTypeMultiple,
		TypeTitle:   s.fam.TypeTitle,
		Link:        link,
		IsDeepLink:  true,
		UserIDs:     userIDs,
		CreatedBy:   adminID,
	})
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	payload := notify.Payload{
		Title:     title,
		Body:      body,
		Link:      link,
		TypeTitle: s.fam.TypeTitle,
		Family:    s.fam.Path,
		NodeID:    n.ID,
	}
	if err := s.deps.Queue.Enqueue(ctx, record.ID, payload, tokens, s.fam.TypeTitle); err != nil {
		s.deps.Metrics.RecordNotification(s.fam.Path, metrics.OutcomeFailed)
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}
	s.deps.Metrics.RecordNotification(s.fam.Path, metrics.OutcomeQueued)
	slog.Info("initial notification queued",
		"family", s.fam.Path, "id", id, "notification_id", record.ID,
		"recipients", len(userIDs), "tokens", len(tokens))

	return response.Created("Notification Sent Successfully!", record), nil
}

func (s *Service) fetchError(err error, id uuid.UUID) error {
	if errors.Is(err, tree.ErrCycle) {
		s.deps.Metrics.RecordCycle(s.fam.Path)
		slog.Error("cycle in tree", "family", s.fam.Path, "id", id, "error", err)
		return err
	}
	return fmt.Errorf("fetch %s descendants: %w", s.fam.Path, err)
}

func (s *Service) cached(ctx context.Context, key string, dst any) bool {
	if s.deps.Cache == nil {
		return false
	}
	hit := s.deps.Cache.Get(ctx, key, dst)
	s.deps.Metrics.RecordCacheLookup(hit)
	return hit
}

func (s *Service) remember(ctx context.Context, key string, v any) {
	if s.deps.Cache != nil {
		s.deps.Cache.Set(ctx, key, v)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.deps.Cache != nil {
		s.deps.Cache.InvalidateFamily(ctx, s.fam.Path)
	}
}

// nodeOrNil keeps Data an untyped nil for a missing node.
func nodeOrNil(n *models.TreeNode) any {
	if n == nil {
		return nil
	}
	return n
}
