package audit

import (
	"context"
	"time"

	"auditlog/internal/domain"
)

// Store is the append-only persistence boundary for the audit trail. It is
// interface-driven so the in-memory implementation can stand in for PostgreSQL
// in unit tests without rewiring the service.
//
// There is deliberately no update or delete operation: rows are tamper-evident
// history, and reports are computed from them, not stored.
type Store interface {
	// Initialize idempotently ensures the environment schema and events table
	// exist. Safe to call on every boot and from concurrent processes.
	Initialize(ctx context.Context) error

	// Append inserts one immutable row and returns it with the store-assigned ID.
	Append(ctx context.Context, event domain.NormalizedEvent, raw map[string]any) (*domain.StoredRecord, error)

	// ReportByAgent groups all rows by agent, counting accesses and tracking the
	// most recent one. A nil since means no lower bound. Ordered by last access
	// descending, then agent ascending for a stable tiebreak.
	ReportByAgent(ctx context.Context, since *time.Time) ([]domain.AgentActivity, error)

	// CountByProviderAndSource counts rows per (agent, source) pair inside the
	// half-open window [from, to). Ordered by count descending, then agent and
	// source ascending.
	CountByProviderAndSource(ctx context.Context, from, to time.Time) ([]domain.ProviderUsage, error)
}
