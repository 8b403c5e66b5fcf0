// Package handler is the thin HTTP layer over the audit service. It maps
// transport concerns onto service calls without embedding business logic.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"auditlog/internal/domain"
	"auditlog/internal/platform/metrics"
	"auditlog/internal/platform/middleware"
	"auditlog/pkg/domainerrors"
	"auditlog/pkg/httputil"
)

// Service defines the audit operations the HTTP layer needs.
type Service interface {
	Ingest(ctx context.Context, doc map[string]any) (*domain.StoredRecord, error)
	ReportByAgent(ctx context.Context, since *time.Time) ([]domain.AgentActivity, error)
	CountByProviderAndSource(ctx context.Context, from, to time.Time) ([]domain.ProviderUsage, error)
}

// Handler handles the ingestion and report endpoints.
type Handler struct {
	logger  *slog.Logger
	audit   Service
	metrics *metrics.Metrics
	apiKey  string
}

// New creates a new audit Handler. apiKey is the operator shared secret for
// the report endpoints.
func New(audit Service, logger *slog.Logger, metrics *metrics.Metrics, apiKey string) *Handler {
	return &Handler{
		logger:  logger,
		audit:   audit,
		metrics: metrics,
		apiKey:  apiKey,
	}
}

// Register mounts the audit routes. Report routes sit behind the API-key
// guard; ingestion is open because submitter authentication is out of scope.
func (h *Handler) Register(r chi.Router) {
	r.Post("/log", h.handleIngest)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(h.apiKey, h.logger))
		r.Get("/report/by-agent", h.handleReportByAgent)
		r.Get("/report/by-provider", h.handleReportByProvider)
	})
}

// handleIngest accepts one FHIR AuditEvent document. Client-caused problems
// are 400s and never retried; a failed append is a 500 and the submitter owns
// resubmission.
func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.metrics.IncRejected()
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeValidation, "invalid JSON body"))
		return
	}

	record, err := h.audit.Ingest(ctx, doc)
	if err != nil {
		switch domainerrors.CodeOf(err) {
		case domainerrors.CodeValidation:
			h.metrics.IncRejected()
			h.logger.WarnContext(ctx, "rejected non-AuditEvent resource",
				"request_id", middleware.GetRequestID(ctx),
			)
		default:
			h.metrics.IncPersistenceFailure()
			h.logger.ErrorContext(ctx, "failed to save AuditEvent",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.metrics.IncIngested()
	h.metrics.ObserveIngestSeconds(time.Since(start).Seconds())
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "saved",
		"id":     record.ID,
	})
}

// handleReportByAgent returns access counts grouped by agent, optionally
// restricted by ?since=YYYY-MM-DD (or RFC 3339).
func (h *Handler) handleReportByAgent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		ts, err := parseTimeParam(raw)
		if err != nil {
			httputil.WriteError(w, domainerrors.New(domainerrors.CodeValidation, "since must be YYYY-MM-DD or RFC 3339"))
			return
		}
		since = &ts
	}

	report, err := h.audit.ReportByAgent(ctx, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build agent report",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// handleReportByProvider returns message counts per (provider, source) over
// the half-open window [from, to). Both parameters are required.
func (h *Handler) handleReportByProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, errFrom := parseTimeParam(r.URL.Query().Get("from"))
	to, errTo := parseTimeParam(r.URL.Query().Get("to"))
	if errFrom != nil || errTo != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeValidation, "from and to are required as YYYY-MM-DD or RFC 3339"))
		return
	}

	usage, err := h.audit.CountByProviderAndSource(ctx, from, to)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build provider report",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, usage)
}

// parseTimeParam accepts calendar dates or full RFC 3339 timestamps. Dates are
// midnight UTC, which keeps the provider window aligned with reporting days.
func parseTimeParam(raw string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, raw)
}
