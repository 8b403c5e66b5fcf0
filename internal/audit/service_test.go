package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditlog/internal/audit"
	"auditlog/internal/audit/store/memory"
	"auditlog/internal/domain"
	"auditlog/pkg/domainerrors"
)

func TestIngestRejectsNonAuditEvent(t *testing.T) {
	store := memory.New()
	svc := audit.NewService(store)

	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"wrong resource type", map[string]any{"resourceType": "Patient"}},
		{"missing resource type", map[string]any{"action": "R"}},
		{"resource type not a string", map[string]any{"resourceType": 7}},
		{"nil document", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tc.doc)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.CodeValidation))
		})
	}

	// Rejections never reach the store.
	assert.Zero(t, store.Len())
}

func TestIngestStoresNormalizedFields(t *testing.T) {
	store := memory.New()
	svc := audit.NewService(store)

	record, err := svc.Ingest(context.Background(), map[string]any{
		"resourceType": "AuditEvent",
		"action":       "R",
		"outcome":      "0",
		"agent":        []any{map[string]any{"who": map[string]any{"identifier": map[string]any{"value": "dr-smith"}}}},
		"entity":       []any{map[string]any{"what": map[string]any{"reference": "Patient/42"}}},
		"source":       map[string]any{"observer": map[string]any{"identifier": map[string]any{"value": "app-x"}}},
		"recorded":     "2025-07-01T10:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "R", record.Action)
	assert.Equal(t, "0", record.Outcome)
	assert.Equal(t, "dr-smith", record.Agent)
	assert.Equal(t, "Patient/42", record.Patient)
	assert.Equal(t, "app-x", record.Source)
	assert.True(t, record.RecordedAt.Equal(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "AuditEvent", record.RawEvent["resourceType"])
}

func TestIngestDegradesMissingFieldsToDefaults(t *testing.T) {
	store := memory.New()
	svc := audit.NewService(store)

	record, err := svc.Ingest(context.Background(), map[string]any{"resourceType": "AuditEvent"})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultUnknown, record.Action)
	assert.Equal(t, domain.DefaultUnknown, record.Outcome)
	assert.Equal(t, domain.DefaultUnknown, record.Agent)
	assert.Equal(t, domain.DefaultPatient, record.Patient)
	assert.Equal(t, domain.DefaultUnknown, record.Source)
	assert.False(t, record.RecordedAt.IsZero(), "recordedAt falls back to receipt time")
}

func TestIngestPersistenceFailurePropagates(t *testing.T) {
	svc := audit.NewService(failingStore{})

	_, err := svc.Ingest(context.Background(), map[string]any{"resourceType": "AuditEvent"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.CodePersistence))
}

func TestAppendThenReportIncrementsExactlyOne(t *testing.T) {
	store := memory.New()
	svc := audit.NewService(store)
	ctx := context.Background()

	doc := map[string]any{
		"resourceType": "AuditEvent",
		"agent":        []any{map[string]any{"who": map[string]any{"identifier": map[string]any{"value": "dr-smith"}}}},
		"recorded":     "2025-07-01T10:00:00Z",
	}
	_, err := svc.Ingest(ctx, doc)
	require.NoError(t, err)

	before, err := svc.ReportByAgent(ctx, nil)
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, err = svc.Ingest(ctx, doc)
	require.NoError(t, err)

	after, err := svc.ReportByAgent(ctx, nil)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "dr-smith", after[0].Agent)
	assert.Equal(t, before[0].AccessCount+1, after[0].AccessCount)
}

type failingStore struct{}

func (failingStore) Initialize(context.Context) error { return nil }

func (failingStore) Append(context.Context, domain.NormalizedEvent, map[string]any) (*domain.StoredRecord, error) {
	return nil, domainerrors.New(domainerrors.CodePersistence, "insert audit event")
}

func (failingStore) ReportByAgent(context.Context, *time.Time) ([]domain.AgentActivity, error) {
	return nil, nil
}

func (failingStore) CountByProviderAndSource(context.Context, time.Time, time.Time) ([]domain.ProviderUsage, error) {
	return nil, nil
}
