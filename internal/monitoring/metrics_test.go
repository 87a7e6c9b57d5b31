// internal/monitoring/metrics_test.go
package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/valpere/StatHarvester/pkg/types"
)

func TestObserveSourceCountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveSource(types.SourceOK, 12, time.Second)
	m.ObserveSource(types.SourceOK, 3, time.Second)
	m.ObserveSource(types.SourceFailed, 0, time.Second)

	if got := testutil.ToFloat64(m.sourcesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok sources = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.sourcesTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed sources = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.recordsExtracted); got != 15 {
		t.Errorf("records extracted = %v, want 15", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(":0", "/metrics")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	s := NewServer(":0", "/metrics")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "# HELP") {
		t.Error("response does not look like Prometheus exposition format")
	}
}
