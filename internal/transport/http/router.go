// Package httptransport assembles the public HTTP surface: middleware chain,
// CORS policy, health endpoints, metrics, and the audit routes.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	audithandler "auditlog/internal/audit/handler"
	"auditlog/internal/platform/middleware"
)

// Options carries per-deployment routing policy.
type Options struct {
	// AllowedOrigins is the browser origin allow-list. Empty means no
	// origin restriction.
	AllowedOrigins []string
}

// NewRouter wires all public endpoints around the audit handler.
func NewRouter(h *audithandler.Handler, logger *slog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	// Preflight is answered by the CORS layer itself.
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "x-api-key"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/", handleRoot)
	r.Get("/healthz", handleRoot)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.Register(r)

	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("FHIR AuditEvent logging server is up and running"))
}
