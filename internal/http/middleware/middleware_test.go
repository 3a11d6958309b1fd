package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"seo_crawler/internal/pkg/metrics"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRequestIDLoggerMiddleware(t *testing.T) {
	logger, hook := test.NewNullLogger()

	var seen string
	handler := RequestIDLoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	t.Run("generates id", func(t *testing.T) {
		hook.Reset()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, `request completed`, hook.LastEntry().Message)
		assert.Equal(t, http.StatusAccepted, hook.LastEntry().Data[`status`])
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("preflight", func(t *testing.T) {
		seen = ""
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/crawl", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, seen)
	})
}

func TestRequestIDLoggerMiddleware_RecoversPanic(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := RequestIDLoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audit", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `internal server error`)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, `boom`, hook.LastEntry().Data[`error`])
}

func TestMetricsMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := counterValue(t, http.MethodGet, "/items/{id}", "200")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))
	assert.Equal(t, before+2, counterValue(t, http.MethodGet, "/items/{id}", "200"))

	var m dto.Metric
	failBefore := counterValue(t, http.MethodGet, "/fail", "418")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, failBefore+1, counterValue(t, http.MethodGet, "/fail", "418"))
	require.NoError(t, metrics.HTTPRequestErrorsTotal.WithLabelValues(http.MethodGet, "/fail", "418").Write(&m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(1))
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {})

	before := counterValue(t, http.MethodGet, unmatchedRoute, "404")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/.env", nil))

	assert.Equal(t, before+2, counterValue(t, http.MethodGet, unmatchedRoute, "404"))
	assert.Zero(t, counterValue(t, http.MethodGet, "/.env", "404"))
}
