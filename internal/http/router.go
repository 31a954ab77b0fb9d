// Package httpapi assembles the HTTP surface: middleware chain, route
// groups, and operational endpoints. Handlers stay in their domain packages;
// this package only decides who sits behind which authentication mode.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"livegate/pkg/platform/httputil"
	"livegate/pkg/platform/middleware/auth"
	"livegate/pkg/platform/middleware/requestid"
	"livegate/pkg/platform/middleware/requesttime"
)

// Registrar mounts a handler's routes on a router group.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router needs.
type Deps struct {
	Logger    *slog.Logger
	Validator auth.TokenValidator

	// Sessions holds the lifecycle endpoints; authenticated callers only.
	Sessions Registrar
	// Admission holds the admission endpoint; optional authentication so
	// guests can knock with nothing but their link secret.
	Admission Registrar

	// Checkers run on /healthz. Nil entries are skipped.
	Checkers map[string]HealthChecker
}

// NewRouter builds the full route tree.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", healthHandler(deps.Checkers))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(g chi.Router) {
		g.Use(auth.Require(deps.Validator, deps.Logger))
		deps.Sessions.Register(g)
	})

	r.Group(func(g chi.Router) {
		g.Use(auth.Optional(deps.Validator, deps.Logger))
		deps.Admission.Register(g)
	})

	return r
}

func healthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, checker := range checkers {
			if checker == nil {
				continue
			}
			if err := checker.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
