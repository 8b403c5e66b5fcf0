// Package memory provides an in-memory audit.Store used by unit tests and
// local runs without a database. Semantics mirror the PostgreSQL store,
// including report ordering and window bounds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"auditlog/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	records []domain.StoredRecord
	nextID  int64
}

func New() *Store {
	return &Store{nextID: 1}
}

// Initialize is a no-op; there is no schema to create.
func (s *Store) Initialize(_ context.Context) error { return nil }

func (s *Store) Append(_ context.Context, event domain.NormalizedEvent, raw map[string]any) (*domain.StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.StoredRecord{
		ID:         s.nextID,
		RecordedAt: event.RecordedAt,
		Action:     event.Action,
		Outcome:    event.Outcome,
		Agent:      event.Agent,
		Patient:    event.Patient,
		Source:     event.Source,
		RawEvent:   raw,
	}
	s.nextID++
	s.records = append(s.records, record)

	return &record, nil
}

func (s *Store) ReportByAgent(_ context.Context, since *time.Time) ([]domain.AgentActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string]*domain.AgentActivity)
	for _, r := range s.records {
		if since != nil && r.RecordedAt.Before(*since) {
			continue
		}
		g, ok := groups[r.Agent]
		if !ok {
			g = &domain.AgentActivity{Agent: r.Agent}
			groups[r.Agent] = g
		}
		g.AccessCount++
		if r.RecordedAt.After(g.LastAccess) {
			g.LastAccess = r.RecordedAt
		}
	}

	report := make([]domain.AgentActivity, 0, len(groups))
	for _, g := range groups {
		report = append(report, *g)
	}
	sort.Slice(report, func(i, j int) bool {
		if !report[i].LastAccess.Equal(report[j].LastAccess) {
			return report[i].LastAccess.After(report[j].LastAccess)
		}
		return report[i].Agent < report[j].Agent
	})
	return report, nil
}

func (s *Store) CountByProviderAndSource(_ context.Context, from, to time.Time) ([]domain.ProviderUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct{ provider, source string }
	counts := make(map[key]int64)
	for _, r := range s.records {
		// Half-open window: from inclusive, to exclusive.
		if r.RecordedAt.Before(from) || !r.RecordedAt.Before(to) {
			continue
		}
		counts[key{r.Agent, r.Source}]++
	}

	usage := make([]domain.ProviderUsage, 0, len(counts))
	for k, n := range counts {
		usage = append(usage, domain.ProviderUsage{Provider: k.provider, Source: k.source, MessageCount: n})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].MessageCount != usage[j].MessageCount {
			return usage[i].MessageCount > usage[j].MessageCount
		}
		if usage[i].Provider != usage[j].Provider {
			return usage[i].Provider < usage[j].Provider
		}
		return usage[i].Source < usage[j].Source
	})
	return usage, nil
}

// Len reports the number of stored records. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
