package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	mw "github.com/kiranshivaraju/yaktalk/internal/api/middleware"
	"github.com/kiranshivaraju/yaktalk/internal/api/response"
	"github.com/kiranshivaraju/yaktalk/internal/metrics"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler     http.HandlerFunc
	ChatHandler       http.HandlerFunc
	SearchHandler     http.HandlerFunc
	CacheStatsHandler http.HandlerFunc
	CacheClearHandler http.HandlerFunc
	ListConsultations http.HandlerFunc
	GetConsultation   http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(metrics.Middleware)

	// Public endpoints
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/chat", orNotImplemented(deps.ChatHandler))
		r.Get("/api/v1/search", orNotImplemented(deps.SearchHandler))

		r.Get("/api/v1/cache/stats", orNotImplemented(deps.CacheStatsHandler))
		r.Delete("/api/v1/cache", orNotImplemented(deps.CacheClearHandler))

		r.Get("/api/v1/consultations", orNotImplemented(deps.ListConsultations))
		r.Get("/api/v1/consultations/{consultationID}", orNotImplemented(deps.GetConsultation))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
