package observability

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter

	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.statusCode == 0 {
		sw.statusCode = code
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(buf []byte) (int, error) {
	if sw.statusCode == 0 {
		sw.statusCode = http.StatusOK
	}

	return sw.ResponseWriter.Write(buf)
}

func (sw *statusWriter) status() int {
	if sw.statusCode == 0 {
		return http.StatusOK
	}

	return sw.statusCode
}

// HTTPMiddleware wraps next with a server span named "METHOD /path", RED
// metrics and an access log line. red may be nil.
func HTTPMiddleware(tracer trace.Tracer, logger *slog.Logger, red *REDMetrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		op := hr.Method + " " + hr.URL.Path
		start := time.Now()

		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, op,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		done := red.TrackInflight(ctx, op)
		defer done()

		sw := &statusWriter{ResponseWriter: rw}
		next.ServeHTTP(sw, hr.WithContext(ctx))

		code := sw.status()
		elapsed := time.Since(start)
		span.SetAttributes(semconv.HTTPResponseStatusCode(code))

		status := StatusOK
		level := slog.LevelDebug

		if code >= http.StatusInternalServerError {
			status = StatusError
			level = slog.LevelError

			span.SetStatus(codes.Error, http.StatusText(code))
		}

		red.RecordRequest(ctx, op, status, elapsed)
		logger.Log(ctx, level, "http request",
			"method", hr.Method,
			"path", hr.URL.Path,
			"status", code,
			"duration", elapsed,
		)
	})
}
