package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrollstats/internal/infrastructure"
	"enrollstats/internal/shared/testutil"
)

func TestOTelMiddleware(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	var traces bytes.Buffer
	cfg := infrastructure.DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceOutput = &traces

	providers, err := infrastructure.InitializeOTel(cfg, logger)
	require.NoError(t, err)

	otelMW, err := NewOTelMiddleware(providers, nil)
	require.NoError(t, err)

	var traceID string
	r := chi.NewRouter()
	r.Use(otelMW.Handler)
	r.Get("/api/v1/schools/{school}/stats", func(w http.ResponseWriter, r *http.Request) {
		traceID = infrastructure.GetTraceID(r.Context())
		w.Write([]byte(`{}`))
	})
	r.Handle("/metrics", providers.PrometheusHTTP)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schools/9865/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, traceID, 32)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), `route="/api/v1/schools/{school}/stats"`)

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, traces.String(), "GET /api/v1/schools/{school}/stats")
}

func TestOTelMiddleware_TracingDisabledKeepsRequestID(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		TraceExporter:  "none",
		MetricExporter: "none",
	}, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	otelMW, err := NewOTelMiddleware(providers, nil)
	require.NoError(t, err)

	var traceID string
	handler := RequestID(otelMW.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = infrastructure.GetTraceID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-7", traceID)
}

func TestNewOTelMiddlewareRequiresProviders(t *testing.T) {
	_, err := NewOTelMiddleware(nil, nil)
	assert.Error(t, err)
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	ww.WriteHeader(http.StatusNotFound)
	n, err := ww.Write([]byte("missing"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, ww.statusCode)
	assert.Equal(t, int64(n), ww.bytesWritten)
}
