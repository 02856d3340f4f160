package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	applogger "AgriPull/pkg/logger"
)

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/market/vegetable", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/api/trend", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no data")
	})

	for _, target := range []string{"/api/market/vegetable?name=Beans", "/api/market/vegetable?name=Okra", "/api/trend"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/market/vegetable", "GET", "200")); got != 2 {
		t.Fatalf("market requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/trend", "GET", "503")); got != 1 {
		t.Fatalf("trend 503s = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.inFlight); n != 2 {
		t.Fatalf("in-flight series = %d, want 2", n)
	}
}

func TestRecoverWritesEnvelope(t *testing.T) {
	e := echo.New()
	e.Use(Recover(applogger.NewNop()))
	e.GET("/api/predict", func(echo.Context) error { panic("forest exploded") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/predict", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ERR_INTERNAL") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRequestLoggingResolvesErrors(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogging(applogger.NewNop(), 0))
	e.GET("/api/market/date", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad date")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/market/date?date=x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
