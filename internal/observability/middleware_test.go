package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/encore/internal/observability"
)

var discardLogger = slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))

func newTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return tp, exporter
}

func TestHTTPMiddleware_CreatesSpan(t *testing.T) {
	t.Parallel()

	tp, exporter := newTracer(t)

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = rw.Write([]byte("ok"))
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), discardLogger, nil, handler)

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trends", http.NoBody))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/trends", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPMiddleware_ServerErrorMarksSpan(t *testing.T) {
	t.Parallel()

	tp, exporter := newTracer(t)
	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	var logs bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&logs, nil))

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), logger, red, handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/trends", http.NoBody))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "encore.errors.total")))
	assert.Contains(t, logs.String(), "status=500")
}

func TestHTTPMiddleware_PassesSpanContext(t *testing.T) {
	t.Parallel()

	tp, _ := newTracer(t)

	var sawSpan bool

	handler := http.HandlerFunc(func(_ http.ResponseWriter, hr *http.Request) {
		sawSpan = traceSpanValid(hr.Context())
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), discardLogger, nil, handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.True(t, sawSpan)
}
