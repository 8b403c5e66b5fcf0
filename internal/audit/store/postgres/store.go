// Package postgres persists the audit trail in PostgreSQL. One append-only
// table per environment schema holds the normalized columns alongside the
// verbatim AuditEvent JSON, so the trail supports both grouped reporting and
// exact replay of what was received.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"auditlog/internal/domain"
	"auditlog/pkg/domainerrors"
)

// Environments the store accepts. Anything else falls back to dev so a typo'd
// deployment never writes into the production schema.
var validEnvs = map[string]bool{"dev": true, "uat": true, "prd": true}

// Store implements audit.Store over database/sql. The *sql.DB pool handles
// connection acquisition and release; every method is a single statement, so
// no explicit transactions are needed.
type Store struct {
	db     *sql.DB
	schema string
}

// New constructs a store scoped to the schema for env. The environment is
// injected here rather than read from globals so several namespaces could
// coexist in one process.
func New(db *sql.DB, env string) *Store {
	if !validEnvs[env] {
		env = "dev"
	}
	return &Store{db: db, schema: "audit_" + env}
}

// Schema reports the namespace this store writes to.
func (s *Store) Schema() string { return s.schema }

// Initialize idempotently creates the schema, the events table, and the
// indexes the report queries lean on. Safe to run on every boot and from
// concurrent processes; nothing here is destructive. A failure is fatal to
// startup: the process must not accept traffic it cannot persist.
func (s *Store) Initialize(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, s.schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.events (
			id BIGSERIAL PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			action TEXT NOT NULL,
			outcome TEXT NOT NULL,
			agent TEXT NOT NULL,
			patient TEXT NOT NULL,
			source TEXT NOT NULL,
			full_event JSONB NOT NULL
		)`, s.schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS events_agent_idx ON %s.events (agent)`, s.schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS events_recorded_at_idx ON %s.events (recorded_at)`, s.schema),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return domainerrors.Wrap(domainerrors.CodeSchemaInit, "initialize schema "+s.schema, err)
		}
	}
	return nil
}

// Append inserts one immutable row. The raw document is stored verbatim as
// JSONB next to the normalized columns.
func (s *Store) Append(ctx context.Context, event domain.NormalizedEvent, raw map[string]any) (*domain.StoredRecord, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodePersistence, "encode audit event", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.events (recorded_at, action, outcome, agent, patient, source, full_event)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`, s.schema)

	var id int64
	err = s.db.QueryRowContext(ctx, query,
		event.RecordedAt,
		event.Action,
		event.Outcome,
		event.Agent,
		event.Patient,
		event.Source,
		payload,
	).Scan(&id)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodePersistence, "insert audit event", err)
	}

	return &domain.StoredRecord{
		ID:         id,
		RecordedAt: event.RecordedAt,
		Action:     event.Action,
		Outcome:    event.Outcome,
		Agent:      event.Agent,
		Patient:    event.Patient,
		Source:     event.Source,
		RawEvent:   raw,
	}, nil
}

// ReportByAgent groups the whole trail by agent. Ordering is last access
// descending with agent name ascending as the stable tiebreak.
func (s *Store) ReportByAgent(ctx context.Context, since *time.Time) ([]domain.AgentActivity, error) {
	query := fmt.Sprintf(`
		SELECT agent, COUNT(*) AS access_count, MAX(recorded_at) AS last_access
		FROM %s.events`, s.schema)

	var args []any
	if since != nil {
		query += ` WHERE recorded_at >= $1`
		args = append(args, *since)
	}
	query += ` GROUP BY agent ORDER BY last_access DESC, agent ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeAggregation, "query report by agent", err)
	}
	defer rows.Close()

	report := []domain.AgentActivity{}
	for rows.Next() {
		var entry domain.AgentActivity
		if err := rows.Scan(&entry.Agent, &entry.AccessCount, &entry.LastAccess); err != nil {
			return nil, domainerrors.Wrap(domainerrors.CodeAggregation, "scan report row", err)
		}
		report = append(report, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeAggregation, "iterate report rows", err)
	}
	return report, nil
}

// CountByProviderAndSource counts messages per (agent, source) pair inside the
// half-open window [from, to).
func (s *Store) CountByProviderAndSource(ctx context.Context, from, to time.Time) ([]domain.ProviderUsage, error) {
	query := fmt.Sprintf(`
		SELECT agent AS provider, source, COUNT(*) AS message_count
		FROM %s.events
		WHERE recorded_at >= $1 AND recorded_at < $2
		GROUP BY agent, source
		ORDER BY message_count DESC, agent ASC, source ASC`, s.schema)

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeAggregation, "query count by provider", err)
	}
	defer rows.Close()

	usage := []domain.ProviderUsage{}
	for rows.Next() {
		var entry domain.ProviderUsage
		if err := rows.Scan(&entry.Provider, &entry.Source, &entry.MessageCount); err != nil {
			return nil, domainerrors.Wrap(domainerrors.CodeAggregation, "scan usage row", err)
		}
		usage = append(usage, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeAggregation, "iterate usage rows", err)
	}
	return usage, nil
}
