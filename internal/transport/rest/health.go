package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/abgdnv/productcache/pkg/web"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 2 * time.Second

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks map[string]Check
	logger *slog.Logger
}

func NewHealthHandler(checks map[string]Check, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger.With("component", "health")}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// Liveness is a simple health check endpoint.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Readiness runs every check concurrently and answers 503 if any of them fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	failures := h.Check(r.Context())
	if len(failures) > 0 {
		h.logger.WarnContext(r.Context(), "Readiness check failed", "failures", failures)
		web.RespondJSON(w, h.logger, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failures": failures})
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// Check returns the failing dependencies with their errors.
func (h *HealthHandler) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			results[i] = h.checks[name](ctx)
			return nil
		})
	}
	_ = g.Wait()

	failures := make(map[string]string)
	for i, err := range results {
		if err != nil {
			failures[names[i]] = err.Error()
		}
	}
	return failures
}
