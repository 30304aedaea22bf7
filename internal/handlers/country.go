// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"nikshay/internal/country"
	"nikshay/internal/response"
)

// CountryService manages the country lookup list.
type CountryService interface {
	List(ctx context.Context) (*response.Envelope, error)
	Create(ctx context.Context, in country.Input) (*response.Envelope, error)
	Remove(ctx context.Context, id uuid.UUID) (*response.Envelope, error)
}

// Country serves the /country routes.
type Country struct {
	svc CountryService
}

// NewCountry creates the country handlers.
func NewCountry(svc CountryService) *Country {
	return &Country{svc: svc}
}

// List handles GET /country.
func (h *Country) List(w http.ResponseWriter, r *http.Request) {
	env, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

// Create handles POST /country.
func (h *Country) Create(w http.ResponseWriter, r *http.Request) {
	var in country.Input
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

// Remove handles DELETE /country/{id}. A country still referenced by
// subscribers is rejected with 400.
func (h *Country) Remove(w http.ResponseWriter, r *http.Request) {
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
