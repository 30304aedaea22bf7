// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"nikshay/internal/family"
	"nikshay/internal/models"
	"nikshay/internal/store"
	"nikshay/internal/tree"
)

// siblingSort matches tree.SortSiblings.
var siblingSort = bson.D{{Key: "index", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// TreeIndexes are created on every family collection.
var TreeIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "parentId", Value: 1}, {Key: "index", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("idx_parentId_index_createdAt"),
	},
	{
		Keys:    bson.D{{Key: "stateIds", Value: 1}},
		Options: options.Index().SetName("idx_stateIds"),
	},
	{
		Keys:    bson.D{{Key: "cadreIds", Value: 1}},
		Options: options.Index().SetName("idx_cadreIds"),
	},
}

// TreeStore manages the nodes of one content family in its own collection.
type TreeStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewTreeStore returns a TreeStore over the family's collection.
func NewTreeStore(db *mongo.Database, fam family.Family) *TreeStore {
	return &TreeStore{db: db, coll: db.Collection(fam.Collection)}
}

func (s *TreeStore) findNodes(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.TreeNode, error) {
	cur, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []models.TreeNode{}
	for cur.Next(ctx) {
		var d nodeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode %s node: %w", s.coll.Name(), err)
		}
		items = append(items, d.model())
	}
	return items, cur.Err()
}

// singleNode decodes a single-document result. Returns nil on no document.
func singleNode(res *mongo.SingleResult) (*models.TreeNode, error) {
	var d nodeDoc
	err := res.Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n := d.model()
	return &n, nil
}

// FindByID retrieves a node by ID. Returns nil if not found.
func (s *TreeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	n, err := singleNode(s.coll.FindOne(ctx, bson.M{"_id": id.String()}))
	if err != nil {
		return nil, fmt.Errorf("find %s node by id: %w", s.coll.Name(), err)
	}
	return n, nil
}

// Create inserts a new node with a generated id and returns it.
func (s *TreeStore) Create(ctx context.Context, n *models.TreeNode) (*models.TreeNode, error) {
	c := *n
	c.ID = uuid.New()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	c.SendInitialNotification = false
	if c.StateIDs == nil {
		c.StateIDs = []uuid.UUID{}
	}
	if c.CadreIDs == nil {
		c.CadreIDs = []uuid.UUID{}
	}

	if _, err := s.coll.InsertOne(ctx, toNodeDoc(&c)); err != nil {
		return nil, fmt.Errorf("create %s node: %w", s.coll.Name(), err)
	}
	c.Title = models.Text(textMap(c.Title))
	c.Description = models.Text(textMap(c.Description))
	return &c, nil
}

// Update applies a partial update and returns the stored node, or nil if
// the id does not exist.
func (s *TreeStore) Update(ctx context.Context, id uuid.UUID, p *models.NodePatch) (*models.TreeNode, error) {
	set := bson.M{"updatedAt": now()}
	if p.LegacyID != nil {
		set["id"] = *p.LegacyID
	}
	if p.ClearParent {
		set["parentId"] = nil
	} else if p.ParentID != nil {
		set["parentId"] = p.ParentID.String()
	}
	if p.MasterNodeID != nil {
		set["masterNodeId"] = p.MasterNodeID.String()
	}
	if p.RedirectNodeID != nil {
		set["redirectNodeId"] = p.RedirectNodeID.String()
	}
	setIf(set, "redirectAlgoType", p.RedirectAlgoType)
	setIf(set, "nodeType", p.NodeType)
	setIf(set, "isExpandable", p.IsExpandable)
	setIf(set, "hasOptions", p.HasOptions)
	setIf(set, "timeSpent", p.TimeSpent)
	setIf(set, "header", p.Header)
	setIf(set, "subHeader", p.SubHeader)
	setIf(set, "icon", p.Icon)
	setIf(set, "index", p.Index)
	if p.Title != nil {
		set["title"] = map[string]string(p.Title)
	}
	if p.Description != nil {
		set["description"] = map[string]string(p.Description)
	}
	if p.StateIDs != nil {
		set["stateIds"] = idStrings(p.StateIDs)
	}
	setIf(set, "isAllState", p.IsAllState)
	if p.CadreIDs != nil {
		set["cadreIds"] = idStrings(p.CadreIDs)
	}
	setIf(set, "isAllCadre", p.IsAllCadre)
	setIf(set, "activated", p.Activated)
	setIf(set, "typeOfMaterials", p.TypeOfMaterials)
	if p.RelatedMaterials != nil {
		set["relatedMaterials"] = p.RelatedMaterials
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	n, err := singleNode(s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set}, opts))
	if err != nil {
		return nil, fmt.Errorf("update %s node: %w", s.coll.Name(), err)
	}
	return n, nil
}

// setIf adds key to a $set document when v is non-nil.
func setIf[T any](set bson.M, key string, v *T) {
	if v != nil {
		set[key] = *v
	}
}

// Delete removes a node and returns it, or nil if it did not exist.
// Children are not touched.
func (s *TreeStore) Delete(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	n, err := singleNode(s.coll.FindOneAndDelete(ctx, bson.M{"_id": id.String()}))
	if err != nil {
		return nil, fmt.Errorf("delete %s node: %w", s.coll.Name(), err)
	}
	return n, nil
}

// Children returns the direct children of parentID in sibling order.
func (s *TreeStore) Children(ctx context.Context, parentID uuid.UUID) ([]models.TreeNode, error) {
	items, err := s.findNodes(ctx, bson.M{"parentId": parentID.String()}, options.Find().SetSort(siblingSort))
	if err != nil {
		return nil, fmt.Errorf("list %s children: %w", s.coll.Name(), err)
	}
	return items, nil
}

// Roots returns the root nodes matching q in sibling order.
func (s *TreeStore) Roots(ctx context.Context, q tree.RootQuery) ([]models.TreeNode, error) {
	items, err := s.findNodes(ctx, rootFilter(q), options.Find().SetSort(siblingSort))
	if err != nil {
		return nil, fmt.Errorf("list %s roots: %w", s.coll.Name(), err)
	}
	return items, nil
}

// rootFilter expresses tree.RootQuery.Matches as a Mongo filter. A null
// parentId matches both null and missing fields.
func rootFilter(q tree.RootQuery) bson.D {
	filter := bson.D{{Key: "parentId", Value: nil}}
	if q.ActivatedOnly || q.Audience != nil {
		filter = append(filter, bson.E{Key: "activated", Value: true})
	}
	if a := q.Audience; a != nil {
		if a.CadreID != nil {
			filter = append(filter, bson.E{Key: "$or", Value: bson.A{
				bson.M{"isAllCadre": true},
				bson.M{"cadreIds": a.CadreID.String()},
			}})
		} else {
			filter = append(filter, bson.E{Key: "isAllCadre", Value: true})
		}
		if a.Mode() == tree.ModeCombined {
			filter = append(filter, bson.E{Key: "isAllState", Value: true})
		}
	}
	return filter
}

// All returns every node of the family in sibling order.
func (s *TreeStore) All(ctx context.Context) ([]models.TreeNode, error) {
	items, err := s.findNodes(ctx, bson.M{}, options.Find().SetSort(siblingSort))
	if err != nil {
		return nil, fmt.Errorf("list all %s nodes: %w", s.coll.Name(), err)
	}
	return items, nil
}

// sortFields maps admin sort keys to document fields.
var sortFields = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"index":     "index",
	"title":     "title.en",
}

// Paginate returns one page of nodes with state and cadre titles expanded.
// The count and the page are fetched concurrently.
func (s *TreeStore) Paginate(ctx context.Context, q tree.PageQuery) (*tree.Page, error) {
	q = q.Normalized()

	filter := bson.M{}
	if q.Title != "" {
		filter["title.en"] = bson.M{"$regex": regexp.QuoteMeta(q.Title), "$options": "i"}
	}
	if len(q.StateIDs) > 0 {
		filter["stateIds"] = bson.M{"$in": idStrings(q.StateIDs)}
	}
	if len(q.CadreIDs) > 0 {
		filter["cadreIds"] = bson.M{"$in": idStrings(q.CadreIDs)}
	}

	dir := -1
	if q.SortOrder == "asc" {
		dir = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortFields[q.SortBy], Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))

	var total int64
	var nodes []models.TreeNode

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if total, err = s.coll.CountDocuments(gctx, filter); err != nil {
			return fmt.Errorf("count %s nodes: %w", s.coll.Name(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if nodes, err = s.findNodes(gctx, filter, opts); err != nil {
			return fmt.Errorf("list %s page: %w", s.coll.Name(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var stateIDs, cadreIDs []uuid.UUID
	for _, n := range nodes {
		stateIDs = append(stateIDs, n.StateIDs...)
		cadreIDs = append(cadreIDs, n.CadreIDs...)
	}
	states, err := NewStateStore(s.db).Titles(ctx, stateIDs)
	if err != nil {
		return nil, err
	}
	cadres, err := NewCadreStore(s.db).Titles(ctx, cadreIDs)
	if err != nil {
		return nil, err
	}

	return &tree.Page{Items: store.PopulateWith(nodes, states, cadres), Total: int(total)}, nil
}

// MarkInitialNotification sets the node's initial notification flag.
func (s *TreeStore) MarkInitialNotification(ctx context.Context, id uuid.UUID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"sendInitialNotification": true, "updatedAt": now()}})
	if err != nil {
		return fmt.Errorf("mark %s node notified: %w", s.coll.Name(), err)
	}
	return nil
}
