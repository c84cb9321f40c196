package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/report"
	pkgserver "github.com/Priyanshi1908/openQA.ai/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downHealth struct{}

func (downHealth) Healthy(context.Context) bool { return false }

func newTestServer(t *testing.T, health pkgserver.HealthChecker) (*Server, *ReportView, *report.Aggregator) {
	t.Helper()

	cfg, err := NewConfig("8080")
	require.NoError(t, err)

	s := New(t.Context(), cfg, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	view := NewReportView()
	agg := report.NewAggregator()
	agg.Subscribe(view.Observe)
	NewReportRouter(s.Echo, view).Bind()

	return s, view, agg
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func addRows(agg *report.Aggregator, n int) {
	for i := 0; i < n; i++ {
		agg.AddRow(domain.ReportRow{
			Question:       "q",
			ModelResponse:  "a",
			ExpectedAnswer: "a",
			ExactMatch:     true,
		})
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t, pkgserver.NewOkHealthChecker())
	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	s, _, _ = newTestServer(t, downHealth{})
	rec = get(t, s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReport_Pending(t *testing.T) {
	s, _, _ := newTestServer(t, pkgserver.NewOkHealthChecker())

	rec := get(t, s, "/api/v1/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusPending, body.Status)
	assert.Empty(t, body.Rows)
	assert.False(t, body.Done)
}

func TestReport_FollowsAggregator(t *testing.T) {
	s, _, agg := newTestServer(t, pkgserver.NewOkHealthChecker())

	addRows(agg, 2)

	var body reportResponse
	rec := get(t, s, "/api/v1/report")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusRunning, body.Status)
	assert.Equal(t, 2, body.Seq)
	assert.Len(t, body.Rows, 2)
	assert.Equal(t, 2, body.Summary.ExactMatches)

	agg.Close()

	rec = get(t, s, "/api/v1/report")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusDone, body.Status)
	assert.True(t, body.Done)
}

func TestReport_Failed(t *testing.T) {
	s, view, agg := newTestServer(t, pkgserver.NewOkHealthChecker())

	addRows(agg, 1)
	view.Fail(errors.New("generation failed"))
	agg.Close()

	var body reportResponse
	rec := get(t, s, "/api/v1/report")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusFailed, body.Status)
	assert.Equal(t, "generation failed", body.Error)
}

func TestReport_GenerationFailures(t *testing.T) {
	s, view, agg := newTestServer(t, pkgserver.NewOkHealthChecker())

	view.SetGenerationFailures([]string{"generate batch 0: service down", "generate batch 1: service down"})
	agg.Close()

	var body reportResponse
	rec := get(t, s, "/api/v1/report")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusDone, body.Status)
	assert.Empty(t, body.Rows)
	assert.Equal(t, []string{"generate batch 0: service down", "generate batch 1: service down"}, body.GenerationFailures)
}

func TestReportRows_Paging(t *testing.T) {
	s, _, agg := newTestServer(t, pkgserver.NewOkHealthChecker())
	addRows(agg, 5)

	rec := get(t, s, "/api/v1/report/rows?offset=3&limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items   []domain.ReportRow `json:"items"`
		Total   int                `json:"total"`
		HasMore bool               `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Total)
	assert.False(t, page.HasMore)
}

func TestReportRows_InvalidParams(t *testing.T) {
	s, _, _ := newTestServer(t, pkgserver.NewOkHealthChecker())

	for _, target := range []string{
		"/api/v1/report/rows?offset=abc",
		"/api/v1/report/rows?limit=-1",
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _, _ := newTestServer(t, pkgserver.NewOkHealthChecker())
	rec := get(t, s, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig("", " https://a.example ", "")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://a.example"}, cfg.CorsOrigins)

	cfg, err = NewConfig("9090")
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, cfg.CorsOrigins)

	_, err = NewConfig("abc")
	assert.Error(t, err)
	_, err = NewConfig("70000")
	assert.Error(t, err)
}
