package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"auditlog/internal/audit/handler/mocks"
	"auditlog/internal/domain"
	"auditlog/pkg/domainerrors"
	"auditlog/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/audit_mocks.go -package=mocks Service

const testAPIKey = "operator-secret"

type HandlerSuite struct {
	suite.Suite
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, nil, testAPIKey)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func (s *HandlerSuite) TestIngestSavesAuditEvent() {
	r, mockService := newTestRouter(s.T())

	mockService.EXPECT().Ingest(gomock.Any(), gomock.Any()).
		Return(&domain.StoredRecord{ID: 12, Agent: "dr-smith"}, nil)

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/log",
		`{"resourceType":"AuditEvent","action":"R"}`)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	assert.Equal(s.T(), "saved", (*resp)["status"])
	assert.Equal(s.T(), float64(12), (*resp)["id"])
}

func (s *HandlerSuite) TestIngestRejectsNonAuditEvent() {
	r, mockService := newTestRouter(s.T())

	mockService.EXPECT().Ingest(gomock.Any(), gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodeValidation, "resource must be an AuditEvent"))

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/log", `{"resourceType":"Patient"}`)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestIngestRejectsMalformedJSON() {
	r, _ := newTestRouter(s.T())

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/log", `{not json`)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestIngestPersistenceFailureIsServerError() {
	r, mockService := newTestRouter(s.T())

	mockService.EXPECT().Ingest(gomock.Any(), gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodePersistence, "insert audit event"))

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/log", `{"resourceType":"AuditEvent"}`)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "persistence")
}

func (s *HandlerSuite) TestReportByAgentRequiresAPIKey() {
	r, _ := newTestRouter(s.T())

	req := testutil.NewRequest(s.T(), http.MethodGet, "/report/by-agent")
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestReportByAgent() {
	r, mockService := newTestRouter(s.T())
	last := time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC)

	mockService.EXPECT().ReportByAgent(gomock.Any(), gomock.Nil()).
		Return([]domain.AgentActivity{{Agent: "dr-smith", AccessCount: 4, LastAccess: last}}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/report/by-agent")
	req.Header.Set("x-api-key", testAPIKey)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[[]domain.AgentActivity](s.T(), rr)
	require.Len(s.T(), *resp, 1)
	assert.Equal(s.T(), "dr-smith", (*resp)[0].Agent)
	assert.Equal(s.T(), int64(4), (*resp)[0].AccessCount)
}

func (s *HandlerSuite) TestReportByAgentWithSinceDate() {
	r, mockService := newTestRouter(s.T())
	since := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mockService.EXPECT().ReportByAgent(gomock.Any(), &since).
		Return([]domain.AgentActivity{}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/report/by-agent?since=2025-07-01")
	req.Header.Set("x-api-key", testAPIKey)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(s.T(), rr)
	assert.JSONEq(s.T(), "[]", rr.Body.String())
}

func (s *HandlerSuite) TestReportByAgentRejectsBadSince() {
	r, _ := newTestRouter(s.T())

	req := testutil.NewRequest(s.T(), http.MethodGet, "/report/by-agent?since=yesterday")
	req.Header.Set("x-api-key", testAPIKey)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestReportByProvider() {
	r, mockService := newTestRouter(s.T())
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	mockService.EXPECT().CountByProviderAndSource(gomock.Any(), from, to).
		Return([]domain.ProviderUsage{{Provider: "dr-smith", Source: "app-x", MessageCount: 12}}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/report/by-provider?from=2025-07-01&to=2025-07-15")
	req.Header.Set("x-api-key", testAPIKey)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[[]domain.ProviderUsage](s.T(), rr)
	require.Len(s.T(), *resp, 1)
	assert.Equal(s.T(), int64(12), (*resp)[0].MessageCount)
}

func (s *HandlerSuite) TestReportByProviderRequiresBothDates() {
	r, _ := newTestRouter(s.T())

	req := testutil.NewRequest(s.T(), http.MethodGet, "/report/by-provider?from=2025-07-01")
	req.Header.Set("x-api-key", testAPIKey)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestReportByProviderAggregationFailure() {
	r, mockService := newTestRouter(s.T())

	mockService.EXPECT().CountByProviderAndSource(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodeAggregation, "query count by provider"))

	req := testutil.NewRequest(s.T(), http.MethodGet, "/report/by-provider?from=2025-07-01&to=2025-07-15")
	req.Header.Set("x-api-key", testAPIKey)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "aggregation")
}
