// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the content services over JSON HTTP. Handlers
// decode and validate requests, call a service, and map its errors to the
// {statusCode, message, error} body existing clients expect.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nikshay/internal/algorithm"
	"nikshay/internal/country"
	"nikshay/internal/models"
	"nikshay/internal/response"
	"nikshay/internal/tree"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// langHeader carries the caller's preferred content language.
const langHeader = "lang"

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeEnvelope writes env with its own status code.
func writeEnvelope(w http.ResponseWriter, env *response.Envelope) {
	writeJSON(w, env.StatusCode, env)
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &validationError{messages: []string{"invalid JSON body: " + err.Error()}}
	}
	return validateStruct(dst)
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	return models.ParseID(chi.URLParam(r, "id"))
}

// writeError maps service errors to HTTP statuses. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, response.NewError(http.StatusBadRequest, verr.Error()))
	case errors.Is(err, models.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, response.NewError(http.StatusBadRequest, err.Error()))
	case errors.Is(err, country.ErrInUse):
		writeJSON(w, http.StatusBadRequest, response.NewError(http.StatusBadRequest, country.ErrInUse.Error()))
	case errors.Is(err, algorithm.ErrNotFound):
		writeJSON(w, http.StatusNotFound, response.NewError(http.StatusNotFound, "Node not found"))
	case errors.Is(err, tree.ErrCycle):
		writeJSON(w, http.StatusConflict, response.NewError(http.StatusConflict, "Tree contains a cycle"))
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError,
			response.NewError(http.StatusInternalServerError, "Internal server error"))
	}
}
