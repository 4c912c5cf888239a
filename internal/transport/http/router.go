// Package httptransport wires the HTTP surface: middleware stack,
// verification routes, health probe, and the metrics endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mentorgate/internal/platform/middleware"
	"mentorgate/internal/verification/handler"
)

// Deps carries everything the router needs.
type Deps struct {
	Verification handler.Service
	Auth         *middleware.Auth
	Health       *Health
	Logger       *slog.Logger
}

// NewRouter assembles the full middleware stack and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Device)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(60 * time.Second))

	// Unauthenticated operational endpoints.
	r.Get("/healthz", deps.Health.Handler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Verification API, bound to an authenticated subject.
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Handler)
		handler.New(deps.Verification, deps.Logger).Register(r)
	})

	return r
}
