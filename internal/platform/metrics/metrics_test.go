package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/patients/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return apperr.NotFound("patient not found")
		}
		return c.NoContent(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reqs.WithLabelValues("GET", "/api/v1/patients/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqs.WithLabelValues("GET", "/api/v1/patients/:id", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.durs))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/metrics", m.Handler())
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `clinicup_http_requests_total{method="GET",route="/health",status="200"} 1`), body)
	assert.Contains(t, body, "clinicup_http_request_duration_seconds")
	assert.Contains(t, body, "go_goroutines")
}
