// Package extract derives the normalized projection of a FHIR AuditEvent from
// its raw JSON form. Senders are independent client systems with partial FHIR
// conformance, so every path lookup must tolerate missing or malformed
// intermediate nodes: a broken path degrades that single field to its default
// sentinel and never aborts extraction.
package extract

import (
	"strings"
	"time"

	"auditlog/internal/domain"
)

// Normalize projects doc onto the normalized field set. It never fails. The
// result depends only on doc, except RecordedAt, which falls back to receivedAt
// when the document carries no parseable "recorded" timestamp.
func Normalize(doc map[string]any, receivedAt time.Time) domain.NormalizedEvent {
	return domain.NormalizedEvent{
		RecordedAt: recordedAt(doc, receivedAt),
		Action:     stringOr(doc["action"], domain.DefaultUnknown),
		Outcome:    stringOr(doc["outcome"], domain.DefaultUnknown),
		Agent:      agent(doc),
		Patient:    patient(doc),
		Source:     source(doc),
	}
}

func recordedAt(doc map[string]any, receivedAt time.Time) time.Time {
	raw, ok := doc["recorded"].(string)
	if !ok {
		return receivedAt
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return receivedAt
	}
	return ts
}

// agent prefers agent[0].who.identifier.value over agent[0].who.display. The
// upstream data is inconsistent about which one senders populate, so both are
// consulted in that fixed order.
func agent(doc map[string]any) string {
	who := asMap(asMap(first(doc["agent"]))["who"])
	if v := stringOr(asMap(who["identifier"])["value"], ""); v != "" {
		return v
	}
	if v := stringOr(who["display"], ""); v != "" {
		return v
	}
	return domain.DefaultUnknown
}

// patient scans entity[] for the first what.reference pointing at a Patient
// resource.
func patient(doc map[string]any) string {
	entities, ok := doc["entity"].([]any)
	if !ok {
		return domain.DefaultPatient
	}
	for _, e := range entities {
		ref := stringOr(asMap(asMap(asMap(e)["what"]))["reference"], "")
		if strings.HasPrefix(ref, "Patient/") {
			return ref
		}
	}
	return domain.DefaultPatient
}

// source reads source.observer, trying identifier.value, then display, then
// reference.
func source(doc map[string]any) string {
	observer := asMap(asMap(doc["source"])["observer"])
	if v := stringOr(asMap(observer["identifier"])["value"], ""); v != "" {
		return v
	}
	if v := stringOr(observer["display"], ""); v != "" {
		return v
	}
	if v := stringOr(observer["reference"], ""); v != "" {
		return v
	}
	return domain.DefaultUnknown
}

// asMap returns v as an object node, or an empty one when v is anything else.
// Chaining asMap calls walks a path without ever panicking.
func asMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// first returns the first element of a JSON array node, or nil.
func first(v any) any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	return list[0]
}

func stringOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}
