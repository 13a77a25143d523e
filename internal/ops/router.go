// Package ops serves the worker's operational endpoints: liveness and
// readiness. The tenant-facing web application lives elsewhere; nothing here
// exposes tenant data.
package ops

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/complydesk/complydesk/internal/ops/middleware"
	"github.com/complydesk/complydesk/internal/ops/response"
)

// Pinger is anything whose connectivity readiness depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds the backends readiness checks probe.
type Dependencies struct {
	Database Pinger
	Queue    Pinger
}

// NewRouter builds the chi router with middleware and the ops routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, map[string]any{"status": "ok"})
	})

	r.Get("/readyz", readyHandler(deps))

	return r
}

func readyHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"queue":    "ok",
		}

		if err := deps.Database.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := deps.Queue.Ping(r.Context()); err != nil {
			checks["queue"] = "degraded"
		}

		if checks["database"] != "ok" || checks["queue"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
