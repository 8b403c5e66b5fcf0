package domain

import "time"

// ResourceTypeAuditEvent is the only FHIR resource type this service accepts.
const ResourceTypeAuditEvent = "AuditEvent"

// Default sentinels written when the inbound document omits a field. Extraction
// degrades to these values instead of failing; storage is never blocked by a
// partially conformant sender.
const (
	DefaultUnknown = "Unknown"
	DefaultPatient = "N/A"
)

// NormalizedEvent is the flat, queryable projection of a raw AuditEvent. It is
// always stored alongside the verbatim document, never on its own.
type NormalizedEvent struct {
	RecordedAt time.Time
	Action     string
	Outcome    string
	Agent      string
	Patient    string
	Source     string
}

// StoredRecord is one immutable row of the audit trail. Rows are created on
// ingestion and never updated or deleted.
type StoredRecord struct {
	ID         int64
	RecordedAt time.Time
	Action     string
	Outcome    string
	Agent      string
	Patient    string
	Source     string
	RawEvent   map[string]any
}

// AgentActivity is one group of the by-agent report. Recomputed on each query,
// never persisted.
type AgentActivity struct {
	Agent       string    `json:"agent"`
	AccessCount int64     `json:"access_count"`
	LastAccess  time.Time `json:"last_access"`
}

// ProviderUsage is one group of the by-provider/source count over a half-open
// time window.
type ProviderUsage struct {
	Provider     string `json:"provider"`
	Source       string `json:"source"`
	MessageCount int64  `json:"message_count"`
}
