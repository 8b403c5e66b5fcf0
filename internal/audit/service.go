// Package audit holds the ingestion and aggregation service for FHIR
// AuditEvent resources. The service is transport-agnostic; the HTTP layer
// delegates to it without embedding business logic.
package audit

import (
	"context"
	"time"

	"auditlog/internal/domain"
	"auditlog/internal/extract"
	"auditlog/pkg/domainerrors"
)

// Service normalizes inbound AuditEvent documents, appends them to the store,
// and fronts the read-only report queries. Ingestion is request-scoped; the
// only shared state is the store itself.
type Service struct {
	store Store

	// now supplies the receipt-time fallback for documents without a recorded
	// timestamp. Injected so tests can pin it.
	now func() time.Time
}

// NewService builds a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Ingest validates, normalizes, and persists one inbound document. Documents
// that are not AuditEvents are rejected before anything touches the store.
// A store failure propagates to the caller; the event is never silently
// dropped and never retried here, since the submitter owns resubmission.
func (s *Service) Ingest(ctx context.Context, doc map[string]any) (*domain.StoredRecord, error) {
	if doc == nil {
		return nil, domainerrors.New(domainerrors.CodeValidation, "empty request body")
	}
	if rt, _ := doc["resourceType"].(string); rt != domain.ResourceTypeAuditEvent {
		return nil, domainerrors.New(domainerrors.CodeValidation, "resource must be an AuditEvent")
	}

	event := extract.Normalize(doc, s.now().UTC())

	record, err := s.store.Append(ctx, event, doc)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ReportByAgent returns per-agent access counts, optionally restricted to rows
// recorded at or after since. Reports run concurrently with ingestion and see
// an eventually-consistent snapshot: an event being appended at the same
// moment may or may not be included.
func (s *Service) ReportByAgent(ctx context.Context, since *time.Time) ([]domain.AgentActivity, error) {
	return s.store.ReportByAgent(ctx, since)
}

// CountByProviderAndSource returns per-(provider, source) message counts over
// the half-open window [from, to).
func (s *Service) CountByProviderAndSource(ctx context.Context, from, to time.Time) ([]domain.ProviderUsage, error) {
	return s.store.CountByProviderAndSource(ctx, from, to)
}
