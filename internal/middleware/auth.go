// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"nikshay/internal/response"
	"nikshay/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// PrincipalKey is the context key for the authenticated principal.
	PrincipalKey contextKey = "principal"
)

// PrincipalLoader resolves the principal behind a request's bearer token.
// It returns (nil, nil) for anonymous requests.
type PrincipalLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Principal, error)
}

// LoadPrincipal resolves the bearer token and stores the principal in the
// request context. It does not enforce authentication.
func LoadPrincipal(loader PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := loader.Get(r.Context(), r)
			if err != nil {
				// Treat as anonymous.
				slog.Warn("principal lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if p != nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSubscriber rejects requests without a principal with 401.
// Must be applied after LoadPrincipal.
func RequireSubscriber(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 401 for anonymous requests and 403 if the principal
// is not an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromCtx(r.Context())
		if p == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !p.IsAdmin() {
			writeError(w, http.StatusForbidden, "Forbidden resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *session.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFromCtx extracts the principal from the request context.
// Returns nil if the request is anonymous.
func PrincipalFromCtx(ctx context.Context) *session.Principal {
	p, _ := ctx.Value(PrincipalKey).(*session.Principal)
	return p
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response.NewError(status, message))
}
