package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/yaktalk/internal/api/response"
)

// Pinger is satisfied by the store and the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness reports whether consultations can run.
type Readiness interface {
	Ready(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
// Any degraded dependency or an unready pipeline yields 503.
func NewHealthHandler(db, cache Pinger, pipeline Readiness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
			"pipeline": "ok",
		}

		if err := db.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := cache.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}
		if err := pipeline.Ready(r.Context()); err != nil {
			checks["pipeline"] = "setup_required"
		}

		for _, status := range checks {
			if status != "ok" {
				response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
					"One or more services degraded", checks)
				return
			}
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
