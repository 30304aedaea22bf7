// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package algorithm

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"nikshay/internal/models"
	"nikshay/internal/notify"
	"nikshay/internal/tree"
)

// memStore is an in-memory tree.Store.
type memStore struct {
	mu    sync.Mutex
	nodes map[uuid.UUID]models.TreeNode
	now   time.Time

	updates int
	marks   int
}

func newMemStore() *memStore {
	return &memStore{
		nodes: make(map[uuid.UUID]models.TreeNode),
		now:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) Create(_ context.Context, n *models.TreeNode) (*models.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *n
	c.ID = uuid.New()
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	m.nodes[c.ID] = c
	return &c, nil
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*models.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (m *memStore) Update(_ context.Context, id uuid.UUID, p *models.NodePatch) (*models.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	n, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	n = p.Apply(n)
	n.UpdatedAt = m.tick()
	m.nodes[id] = n
	return &n, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) (*models.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	delete(m.nodes, id)
	return &n, nil
}

func (m *memStore) flat() []models.TreeNode {
	out := make([]models.TreeNode, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, n)
	}
	tree.SortSiblings(out)
	return out
}

func (m *memStore) Children(_ context.Context, parentID uuid.UUID) ([]models.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TreeNode
	for _, n := range m.flat() {
		if n.ParentID != nil && *n.ParentID == parentID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) Roots(_ context.Context, q tree.RootQuery) ([]models.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.TreeNode{}
	for _, n := range m.flat() {
		if q.Matches(&n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) All(context.Context) ([]models.TreeNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flat(), nil
}

func (m *memStore) Paginate(_ context.Context, q tree.PageQuery) (*tree.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.flat()
	page := &tree.Page{Total: len(all)}
	for i := q.Offset(); i < len(all) && i < q.Offset()+q.Limit; i++ {
		page.Items = append(page.Items, models.PopulatedNode{TreeNode: all[i]})
	}
	return page, nil
}

func (m *memStore) MarkInitialNotification(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks++
	if n, ok := m.nodes[id]; ok {
		n.SendInitialNotification = true
		m.nodes[id] = n
	}
	return nil
}

// put stores n as is, keeping its id and parent.
func (m *memStore) put(n models.TreeNode) models.TreeNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.tick()
	}
	m.nodes[n.ID] = n
	return n
}

// fakeSubscribers filters an in-memory subscriber list.
type fakeSubscribers struct {
	subs    []models.Subscriber
	filters []models.ScopeFilter
}

func (f *fakeSubscribers) FindByID(_ context.Context, id uuid.UUID) (*models.Subscriber, error) {
	for _, s := range f.subs {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscribers) IDsInScope(_ context.Context, flt models.ScopeFilter) ([]uuid.UUID, error) {
	f.filters = append(f.filters, flt)
	var ids []uuid.UUID
	for _, s := range f.subs {
		if flt.StateIDs != nil && (s.StateID == nil || !slices.Contains(flt.StateIDs, *s.StateID)) {
			continue
		}
		if flt.CadreIDs != nil && (s.CadreID == nil || !slices.Contains(flt.CadreIDs, *s.CadreID)) {
			continue
		}
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// fakeTokens maps users to their device tokens.
type fakeTokens map[uuid.UUID][]string

func (f fakeTokens) TokensFor(_ context.Context, userIDs []uuid.UUID) ([]string, error) {
	var out []string
	for _, id := range userIDs {
		out = append(out, f[id]...)
	}
	return out, nil
}

// fakeNotifications records created notifications.
type fakeNotifications struct {
	created []models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	c := *n
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	f.created = append(f.created, c)
	return &c, nil
}

// enqueued is one recorded Enqueue call.
type enqueued struct {
	notificationID uuid.UUID
	payload        notify.Payload
	tokens         []string
	typeTag        string
}

// fakeQueue records Enqueue calls and returns err when set.
type fakeQueue struct {
	calls []enqueued
	err   error
}

func (f *fakeQueue) Enqueue(_ context.Context, id uuid.UUID, p notify.Payload, tokens []string, typeTag string) error {
	f.calls = append(f.calls, enqueued{id, p, tokens, typeTag})
	return f.err
}

// fakeCache is a JSON round-tripping map cache.
type fakeCache struct {
	entries     map[string][]byte
	hits        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dst any) bool {
	b, ok := f.entries[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false
	}
	f.hits++
	return true
}

func (f *fakeCache) Set(_ context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	f.entries[key] = b
}

func (f *fakeCache) InvalidateFamily(_ context.Context, familyPath string) {
	f.invalidated = append(f.invalidated, familyPath)
	for k := range f.entries {
		if len(k) > len(familyPath) && k[:len(familyPath)+1] == familyPath+":" {
			delete(f.entries, k)
		}
	}
}
