// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"nikshay/internal/algorithm"
	"nikshay/internal/family"
	"nikshay/internal/middleware"
	"nikshay/internal/response"
)

// TreeService is the per-family content service behind the tree routes.
type TreeService interface {
	Family() family.Family
	Create(ctx context.Context, in algorithm.NodeInput) (*response.Envelope, error)
	FindAll(ctx context.Context, q algorithm.ListQuery) (*response.Page, error)
	FindOne(ctx context.Context, id uuid.UUID) (*response.Envelope, error)
	Update(ctx context.Context, id uuid.UUID, in algorithm.PatchInput) (*response.Envelope, error)
	Remove(ctx context.Context, id uuid.UUID) (*response.Envelope, error)
	GetChild(ctx context.Context, id uuid.UUID, lang string) (*response.Envelope, error)
	GetAllDescendants(ctx context.Context, lang string) (*response.Envelope, error)
	GetMasterNode(ctx context.Context, userID uuid.UUID, lang string) (*response.Envelope, error)
	GetMasterNodes(ctx context.Context) (*response.Envelope, error)
	SendInitialInvitation(ctx context.Context, id, adminID uuid.UUID) (*response.Envelope, error)
}

// Tree serves the routes of one content family.
type Tree struct {
	svc TreeService
}

// NewTree creates the handlers for svc's family.
func NewTree(svc TreeService) *Tree {
	return &Tree{svc: svc}
}

// Family returns the family the handlers serve.
func (h *Tree) Family() family.Family {
	return h.svc.Family()
}

// Create handles POST /{family}.
func (h *Tree) Create(w http.ResponseWriter, r *http.Request) {
	var in algorithm.NodeInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// FindAll handles GET /{family} with paging and filters in the query string.
func (h *Tree) FindAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.FindAll(r.Context(), listQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// listQuery reads the admin list filter. Array filters are accepted both
// as stateId[]=a&stateId[]=b and as repeated stateId=a. Unparseable
// numbers fall back to the defaults.
func listQuery(v url.Values) algorithm.ListQuery {
	page, _ := strconv.Atoi(v.Get("page"))
	limit, _ := strconv.Atoi(v.Get("limit"))
	return algorithm.ListQuery{
		Page:      page,
		Limit:     limit,
		Title:     v.Get("title"),
		StateIDs:  multi(v, "stateId"),
		CadreIDs:  multi(v, "cadreId"),
		SortBy:    v.Get("sortBy"),
		SortOrder: v.Get("sortOrder"),
	}
}

func multi(v url.Values, key string) []string {
	out := append([]string{}, v[key+"[]"]...)
	out = append(out, v[key]...)
	if len(out) == 0 {
		return nil
	}
	return out
}

// FindOne handles GET /{family}/{id}.
func (h *Tree) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// Update handles PATCH /{family}/{id}.
func (h *Tree) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in algorithm.PatchInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// Remove handles DELETE /{family}/{id}.
func (h *Tree) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.Remove(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// Child handles GET /{family}/dependent-nodes/{id} and
// /{family}/descendants-nodes/{id}. A missing node renders as [].
func (h *Tree) Child(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.GetChild(r.Context(), id, r.Header.Get(langHeader))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if env == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeEnvelope(w, env)
}

// AllDescendants handles GET /{family}/descendants-nodes.
func (h *Tree) AllDescendants(w http.ResponseWriter, r *http.Request) {
	env, err := h.svc.GetAllDescendants(r.Context(), r.Header.Get(langHeader))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// MasterNodes handles GET /{family}/master-nodes for the calling subscriber.
func (h *Tree) MasterNodes(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		writeJSON(w, http.StatusUnauthorized, response.NewError(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	env, err := h.svc.GetMasterNode(r.Context(), p.UserID, r.Header.Get(langHeader))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// DisplayMasterNodes handles GET /{family}/display-master-nodes.
func (h *Tree) DisplayMasterNodes(w http.ResponseWriter, r *http.Request) {
	env, err := h.svc.GetMasterNodes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// SendInitialNotification handles POST /{family}/send-initial-notification/{id}.
// When nobody can be reached the node is only flagged and the body is empty.
func (h *Tree) SendInitialNotification(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var adminID uuid.UUID
	if p := middleware.PrincipalFromCtx(r.Context()); p != nil {
		adminID = p.UserID
	}
	env, err := h.svc.SendInitialInvitation(r.Context(), id, adminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if env == nil {
		w.WriteHeader(http.StatusCreated)
		return
	}
	writeEnvelope(w, env)
}
