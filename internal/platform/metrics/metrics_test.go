package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New()

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/worklist", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/worklist", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/worklist", "200"))
	if got != 3 {
		t.Errorf("expected 3 requests counted, got %v", got)
	}
}

func TestBusinessCounters(t *testing.T) {
	m := New()

	m.LoginsTotal.WithLabelValues("success").Inc()
	m.LoginsTotal.WithLabelValues("failure").Inc()
	m.LoginsTotal.WithLabelValues("failure").Inc()
	m.AnalysesTotal.WithLabelValues("critical").Inc()

	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues("failure")); got != 2 {
		t.Errorf("expected 2 failed logins, got %v", got)
	}
	if got := testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("critical")); got != 1 {
		t.Errorf("expected 1 critical analysis, got %v", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.UploadsTotal.WithLabelValues("accepted").Inc()

	e := echo.New()
	e.GET("/metrics", m.Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "workstation_uploads_total") {
		t.Error("expected uploads counter in exposition output")
	}
}
