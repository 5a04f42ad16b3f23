package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	assistantapi "github.com/Boddenberg/pj-assistant-bfa-go/internal/api/assistant"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/api/middleware"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/observability"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(assistantHandler *assistantapi.Handler, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Timeout(90 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Readiness equals liveness: the knowledge store is built lazily and a
	// backend outage degrades answers instead of failing them.
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	assistantapi.RegisterRoutes(r, assistantHandler)

	return r
}
