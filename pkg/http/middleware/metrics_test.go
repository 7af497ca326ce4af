package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordsRequest(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/api/report/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/report/42", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/report/:id", http.MethodGet, "200"))
	if got < 1 {
		t.Fatalf("requests_total = %v, want >= 1", got)
	}
	inFlight := testutil.ToFloat64(httpInFlight.WithLabelValues("/api/report/:id", http.MethodGet))
	if inFlight != 0 {
		t.Fatalf("in_flight = %v, want 0 after completion", inFlight)
	}
}

func TestMetricsRecordsErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/api/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad input")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/boom", http.MethodGet, "400"))
	if got < 1 {
		t.Fatalf("requests_total for 400 = %v, want >= 1", got)
	}
}
