// Package router sets up all HTTP routes and middleware chains for the
// content API. Every family is mounted under its own path segment with the
// same route table; subscriber and admin routes get different guards.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nikshay/internal/handlers"
	"nikshay/internal/metrics"
	"nikshay/internal/middleware"
)

// Deps are the handlers and shared middleware the router wires together.
// Limiter and Metrics may be nil.
type Deps struct {
	Principals middleware.PrincipalLoader
	Trees      []*handlers.Tree
	Country    *handlers.Country
	Limiter    *middleware.RateLimiter
	Metrics    *metrics.Metrics
}

// New creates and returns the configured Chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Instrument(d.Metrics))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadPrincipal(d.Principals))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	for _, h := range d.Trees {
		r.Route("/"+h.Family().Path, func(r chi.Router) {
			mountTree(r, h, d.Limiter)
		})
	}

	if d.Country != nil {
		r.Route("/country", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", d.Country.List)
			r.Post("/", d.Country.Create)
			r.Delete("/{id}", d.Country.Remove)
		})
	}

	return r
}

// mountTree registers one family's routes. Static segments are matched
// before /{id}, so master-nodes and friends never parse as ids.
func mountTree(r chi.Router, h *handlers.Tree, limiter *middleware.RateLimiter) {
	// Mobile app routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSubscriber)
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Get("/master-nodes", h.MasterNodes)
		r.Get("/dependent-nodes/{id}", h.Child)
	})

	// Admin panel routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Create)
		r.Get("/", h.FindAll)
		r.Get("/display-master-nodes", h.DisplayMasterNodes)
		r.Get("/descendants-nodes", h.AllDescendants)
		r.Get("/descendants-nodes/{id}", h.Child)
		r.Post("/send-initial-notification/{id}", h.SendInitialNotification)
		r.Get("/{id}", h.FindOne)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Remove)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
