package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/samadhanbodkhe/gudworld-admin/internal/session"
)

// ReadinessCheck is a dependency probed by /readyz.
type ReadinessCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// RouterConfig wires the admin API.
type RouterConfig struct {
	Handler *Handler
	Logger  *slog.Logger
	Metrics *Metrics
	Checks  []ReadinessCheck
}

// NewRouter builds the admin API: health probes are public, /v1 requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(WithLogging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(WithMetrics(cfg.Metrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(cfg.Checks))

	r.Group(func(r chi.Router) {
		r.Use(session.Require(cfg.Logger))
		cfg.Handler.Register(r)
	})

	return otelhttp.NewHandler(r, "admin-api")
}

func readiness(checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failures := map[string]string{}
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				failures[check.Name()] = err.Error()
			}
		}
		if len(failures) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready", "errors": failures})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
