// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/sync/errgroup"

	"nikshay/internal/family"
	"nikshay/internal/models"
	"nikshay/internal/tree"
)

// TreeStore manages the nodes of one content family. Every family has its
// own table with the same columns; the table name comes from the static
// family registry and is never taken from user input.
type TreeStore struct {
	db    *sql.DB
	table string
}

// NewTreeStore returns a TreeStore over the family's table.
func NewTreeStore(db *sql.DB, fam family.Family) *TreeStore {
	return &TreeStore{db: db, table: fam.Table}
}

const treeColumns = `id, legacy_id, parent_id, master_node_id, redirect_node_id,
	redirect_algo_type, node_type, is_expandable, has_options, time_spent,
	header, sub_header, icon, idx, title, description,
	state_ids, is_all_state, cadre_ids, is_all_cadre, activated,
	send_initial_notification, type_of_materials, related_materials,
	created_at, updated_at, deleted_at`

// siblingOrder matches tree.SortSiblings.
const siblingOrder = `ORDER BY idx, created_at, id`

// scanNode scans a row into a TreeNode. Array columns go through the pgx
// type map since database/sql has no array support.
func scanNode(scanner interface{ Scan(...any) error }, m *pgtype.Map) (*models.TreeNode, error) {
	var n models.TreeNode
	var legacy sql.NullInt32
	var states, cadres []pgtype.UUID
	err := scanner.Scan(
		&n.ID, &legacy, &n.ParentID, &n.MasterNodeID, &n.RedirectNodeID,
		&n.RedirectAlgoType, &n.NodeType, &n.IsExpandable, &n.HasOptions, &n.TimeSpent,
		&n.Header, &n.SubHeader, &n.Icon, &n.Index, &n.Title, &n.Description,
		m.SQLScanner(&states), &n.IsAllState, m.SQLScanner(&cadres), &n.IsAllCadre, &n.Activated,
		&n.SendInitialNotification, &n.TypeOfMaterials, m.SQLScanner(&n.RelatedMaterials),
		&n.CreatedAt, &n.UpdatedAt, &n.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if legacy.Valid {
		v := int(legacy.Int32)
		n.LegacyID = &v
	}
	n.StateIDs = fromPgUUIDs(states)
	n.CadreIDs = fromPgUUIDs(cadres)
	return &n, nil
}

// queryNodes runs a query returning treeColumns rows.
func (s *TreeStore) queryNodes(ctx context.Context, query string, args ...any) ([]models.TreeNode, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := pgtype.NewMap()
	items := []models.TreeNode{}
	for rows.Next() {
		n, err := scanNode(rows, m)
		if err != nil {
			return nil, fmt.Errorf("scan %s node: %w", s.table, err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// FindByID retrieves a node by ID. Returns nil if not found.
func (s *TreeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+treeColumns+` FROM `+s.table+` WHERE id = $1`, id)
	n, err := scanNode(row, pgtype.NewMap())
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s node by id: %w", s.table, err)
	}
	return n, nil
}

// Create inserts a new node and returns it.
func (s *TreeStore) Create(ctx context.Context, n *models.TreeNode) (*models.TreeNode, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO `+s.table+` (
			legacy_id, parent_id, master_node_id, redirect_node_id,
			redirect_algo_type, node_type, is_expandable, has_options, time_spent,
			header, sub_header, icon, idx, title, description,
			state_ids, is_all_state, cadre_ids, is_all_cadre, activated,
			type_of_materials, related_materials
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22)
		RETURNING `+treeColumns,
		n.LegacyID, n.ParentID, n.MasterNodeID, n.RedirectNodeID,
		n.RedirectAlgoType, n.NodeType, n.IsExpandable, n.HasOptions, n.TimeSpent,
		n.Header, n.SubHeader, n.Icon, n.Index, n.Title, n.Description,
		uuidArray(n.StateIDs), n.IsAllState, uuidArray(n.CadreIDs), n.IsAllCadre, n.Activated,
		n.TypeOfMaterials, textArray(n.RelatedMaterials),
	)
	created, err := scanNode(row, pgtype.NewMap())
	if err != nil {
		return nil, fmt.Errorf("create %s node: %w", s.table, err)
	}
	return created, nil
}

// Update applies a partial update and returns the stored node, or nil if
// the id does not exist.
func (s *TreeStore) Update(ctx context.Context, id uuid.UUID, p *models.NodePatch) (*models.TreeNode, error) {
	var b setBuilder
	if p.LegacyID != nil {
		b.set("legacy_id", *p.LegacyID)
	}
	if p.ClearParent {
		b.set("parent_id", nil)
	} else if p.ParentID != nil {
		b.set("parent_id", *p.ParentID)
	}
	if p.MasterNodeID != nil {
		b.set("master_node_id", *p.MasterNodeID)
	}
	if p.RedirectNodeID != nil {
		b.set("redirect_node_id", *p.RedirectNodeID)
	}
	b.setString("redirect_algo_type", p.RedirectAlgoType)
	b.setString("node_type", p.NodeType)
	b.setBool("is_expandable", p.IsExpandable)
	b.setBool("has_options", p.HasOptions)
	b.setString("time_spent", p.TimeSpent)
	b.setString("header", p.Header)
	b.setString("sub_header", p.SubHeader)
	b.setString("icon", p.Icon)
	if p.Index != nil {
		b.set("idx", *p.Index)
	}
	if p.Title != nil {
		b.set("title", p.Title)
	}
	if p.Description != nil {
		b.set("description", p.Description)
	}
	if p.StateIDs != nil {
		b.set("state_ids", uuidArray(p.StateIDs))
	}
	b.setBool("is_all_state", p.IsAllState)
	if p.CadreIDs != nil {
		b.set("cadre_ids", uuidArray(p.CadreIDs))
	}
	b.setBool("is_all_cadre", p.IsAllCadre)
	b.setBool("activated", p.Activated)
	b.setString("type_of_materials", p.TypeOfMaterials)
	if p.RelatedMaterials != nil {
		b.set("related_materials", textArray(p.RelatedMaterials))
	}

	b.args = append(b.args, id)
	query := `UPDATE ` + s.table + ` SET ` + b.clause() +
		fmt.Sprintf(` WHERE id = $%d RETURNING `, len(b.args)) + treeColumns

	n, err := scanNode(s.db.QueryRowContext(ctx, query, b.args...), pgtype.NewMap())
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s node: %w", s.table, err)
	}
	return n, nil
}

// Delete removes a node and returns it, or nil if it did not exist.
// Children are not touched.
func (s *TreeStore) Delete(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	row := s.db.QueryRowContext(ctx, `DELETE FROM `+s.table+` WHERE id = $1 RETURNING `+treeColumns, id)
	n, err := scanNode(row, pgtype.NewMap())
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete %s node: %w", s.table, err)
	}
	return n, nil
}

// Children returns the direct children of parentID in sibling order.
func (s *TreeStore) Children(ctx context.Context, parentID uuid.UUID) ([]models.TreeNode, error) {
	items, err := s.queryNodes(ctx,
		`SELECT `+treeColumns+` FROM `+s.table+` WHERE parent_id = $1 `+siblingOrder, parentID)
	if err != nil {
		return nil, fmt.Errorf("list %s children: %w", s.table, err)
	}
	return items, nil
}

// Roots returns the root nodes matching q in sibling order.
func (s *TreeStore) Roots(ctx context.Context, q tree.RootQuery) ([]models.TreeNode, error) {
	where, args := rootFilter(q)
	items, err := s.queryNodes(ctx,
		`SELECT `+treeColumns+` FROM `+s.table+` WHERE `+where+` `+siblingOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s roots: %w", s.table, err)
	}
	return items, nil
}

// rootFilter expresses tree.RootQuery.Matches in SQL.
func rootFilter(q tree.RootQuery) (string, []any) {
	conds := []string{"parent_id IS NULL"}
	var args []any
	if q.ActivatedOnly || q.Audience != nil {
		conds = append(conds, "activated")
	}
	if a := q.Audience; a != nil {
		cadre := "is_all_cadre"
		if a.CadreID != nil {
			args = append(args, *a.CadreID)
			cadre = fmt.Sprintf("(is_all_cadre OR $%d = ANY(cadre_ids))", len(args))
		}
		conds = append(conds, cadre)

		if a.Mode() == tree.ModeCombined {
			// The combined mode only happens without a state, so the state
			// check reduces to the all-states flag.
			conds = append(conds, "is_all_state")
		}
	}
	return strings.Join(conds, " AND "), args
}

// All returns every node of the family in sibling order.
func (s *TreeStore) All(ctx context.Context) ([]models.TreeNode, error) {
	items, err := s.queryNodes(ctx, `SELECT `+treeColumns+` FROM `+s.table+` `+siblingOrder)
	if err != nil {
		return nil, fmt.Errorf("list all %s nodes: %w", s.table, err)
	}
	return items, nil
}

// sortExpr maps admin sort keys to SQL expressions.
var sortExpr = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"index":     "idx",
	"title":     "title->>'en'",
}

// Paginate returns one page of nodes with state and cadre titles expanded.
// The count and the page are queried concurrently.
func (s *TreeStore) Paginate(ctx context.Context, q tree.PageQuery) (*tree.Page, error) {
	q = q.Normalized()

	var conds []string
	var args []any
	if q.Title != "" {
		args = append(args, "%"+escapeLike(q.Title)+"%")
		conds = append(conds, fmt.Sprintf("title->>'en' ILIKE $%d", len(args)))
	}
	if len(q.StateIDs) > 0 {
		args = append(args, uuidArray(q.StateIDs))
		conds = append(conds, fmt.Sprintf("state_ids && $%d", len(args)))
	}
	if len(q.CadreIDs) > 0 {
		args = append(args, uuidArray(q.CadreIDs))
		conds = append(conds, fmt.Sprintf("cadre_ids && $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var page tree.Page
	var nodes []models.TreeNode

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM `+s.table+where, args...).Scan(&page.Total)
		if err != nil {
			return fmt.Errorf("count %s nodes: %w", s.table, err)
		}
		return nil
	})
	g.Go(func() error {
		order := fmt.Sprintf(" ORDER BY %s %s, id", sortExpr[q.SortBy], strings.ToUpper(q.SortOrder))
		listArgs := append(append([]any{}, args...), q.Limit, q.Offset())
		limit := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(listArgs)-1, len(listArgs))

		var err error
		nodes, err = s.queryNodes(gctx, `SELECT `+treeColumns+` FROM `+s.table+where+order+limit, listArgs...)
		if err != nil {
			return fmt.Errorf("list %s page: %w", s.table, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items, err := populateScopes(ctx, s.db, nodes)
	if err != nil {
		return nil, err
	}
	page.Items = items
	return &page, nil
}

// MarkInitialNotification sets the node's initial notification flag.
func (s *TreeStore) MarkInitialNotification(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE `+s.table+` SET send_initial_notification = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark %s node notified: %w", s.table, err)
	}
	return nil
}

// setBuilder collects "column = $n" assignments for a dynamic UPDATE.
type setBuilder struct {
	sets []string
	args []any
}

func (b *setBuilder) set(col string, v any) {
	b.args = append(b.args, v)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func (b *setBuilder) setString(col string, v *string) {
	if v != nil {
		b.set(col, *v)
	}
}

func (b *setBuilder) setBool(col string, v *bool) {
	if v != nil {
		b.set(col, *v)
	}
}

// clause returns the SET list, always touching updated_at.
func (b *setBuilder) clause() string {
	return strings.Join(append(b.sets, "updated_at = NOW()"), ", ")
}

// uuidArray converts ids to an array parameter. It never returns nil, so
// NOT NULL array columns get '{}'.
func uuidArray(ids []uuid.UUID) []pgtype.UUID {
	out := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		out[i] = pgtype.UUID{Bytes: id, Valid: true}
	}
	return out
}

func fromPgUUIDs(ids []pgtype.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id.Valid {
			out = append(out, uuid.UUID(id.Bytes))
		}
	}
	return out
}

func textArray(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
