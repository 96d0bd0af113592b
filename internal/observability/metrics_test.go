package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/stockbridge/stockbridge/internal/testing/guard"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	return res.Body.String()
}

func TestRecordOutcome(t *testing.T) {
	m := NewMetrics()
	m.RecordOutcome("erp_stock", "success")
	m.RecordOutcome("erp_stock", "success")
	m.RecordOutcome("inventory_adjustment", "skipped")

	body := scrape(t, m)
	assert.Contains(t, body, `stockbridge_webhook_events_total{endpoint="erp_stock",status="success"} 2`)
	assert.Contains(t, body, `stockbridge_webhook_events_total{endpoint="inventory_adjustment",status="skipped"} 1`)
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusAccepted, res.Code)

	body := scrape(t, m)
	assert.True(t, strings.Contains(body, `stockbridge_http_requests_total`))
	assert.Contains(t, body, `code="202"`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordOutcome("erp_stock", "success")

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}
