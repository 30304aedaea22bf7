// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

// Scope tables referenced by node stateIds and cadreIds.
const (
	StatesTable = "states"
	CadresTable = "cadres"
)

// ScopeStore manages one scope lookup table (states or cadres).
type ScopeStore struct {
	db    *sql.DB
	table string
}

// NewStateStore returns a ScopeStore over the states table.
func NewStateStore(db *sql.DB) *ScopeStore {
	return &ScopeStore{db: db, table: StatesTable}
}

// NewCadreStore returns a ScopeStore over the cadres table.
func NewCadreStore(db *sql.DB) *ScopeStore {
	return &ScopeStore{db: db, table: CadresTable}
}

// Create inserts a scope entry and returns it.
func (s *ScopeStore) Create(ctx context.Context, title string) (*models.ScopeRef, error) {
	var ref models.ScopeRef
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO `+s.table+` (title) VALUES ($1) RETURNING id, title`, title,
	).Scan(&ref.ID, &ref.Title)
	if err != nil {
		return nil, fmt.Errorf("create %s entry: %w", s.table, err)
	}
	return &ref, nil
}

// FindByTitle retrieves an entry by its exact title. Returns nil if not found.
func (s *ScopeStore) FindByTitle(ctx context.Context, title string) (*models.ScopeRef, error) {
	var ref models.ScopeRef
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM `+s.table+` WHERE title = $1 ORDER BY created_at LIMIT 1`, title,
	).Scan(&ref.ID, &ref.Title)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s entry by title: %w", s.table, err)
	}
	return &ref, nil
}

// Titles returns id -> title for the given ids. Unknown ids are absent.
func (s *ScopeStore) Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return scopeTitles(ctx, s.db, s.table, ids)
}

func scopeTitles(ctx context.Context, db *sql.DB, table string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := db.QueryContext(ctx, `SELECT id, title FROM `+table+` WHERE id = ANY($1)`, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("load %s titles: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scan %s title: %w", table, err)
		}
		out[id] = title
	}
	return out, rows.Err()
}

// populateScopes expands the stateIds and cadreIds of nodes into
// {_id, title} pairs. References to deleted entries are dropped.
func populateScopes(ctx context.Context, db *sql.DB, nodes []models.TreeNode) ([]models.PopulatedNode, error) {
	var stateIDs, cadreIDs []uuid.UUID
	for _, n := range nodes {
		stateIDs = append(stateIDs, n.StateIDs...)
		cadreIDs = append(cadreIDs, n.CadreIDs...)
	}

	states, err := scopeTitles(ctx, db, StatesTable, stateIDs)
	if err != nil {
		return nil, err
	}
	cadres, err := scopeTitles(ctx, db, CadresTable, cadreIDs)
	if err != nil {
		return nil, err
	}
	return PopulateWith(nodes, states, cadres), nil
}

// PopulateWith expands node scope references using preloaded titles.
func PopulateWith(nodes []models.TreeNode, states, cadres map[uuid.UUID]string) []models.PopulatedNode {
	out := make([]models.PopulatedNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, models.PopulatedNode{
			TreeNode: n,
			StateIDs: refs(n.StateIDs, states),
			CadreIDs: refs(n.CadreIDs, cadres),
		})
	}
	return out
}

func refs(ids []uuid.UUID, titles map[uuid.UUID]string) []models.ScopeRef {
	out := make([]models.ScopeRef, 0, len(ids))
	for _, id := range ids {
		if title, ok := titles[id]; ok {
			out = append(out, models.ScopeRef{ID: id, Title: title})
		}
	}
	return out
}
