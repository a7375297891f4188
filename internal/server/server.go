// Package server serves the interactive trend dashboard and its JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/encore/internal/config"
	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/lookup"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// Header and cookie names.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSession   = "X-Session-ID"
	SessionCookie   = "encore_session"
)

const (
	defaultEntityLimit = 50
	suggestionLimit    = 200
	shutdownTimeout    = 5 * time.Second
	idleTimeout        = 120 * time.Second
)

// Options configures a Server.
type Options struct {
	Defaults       config.TrendConfig
	Logger         *slog.Logger
	Tracer         trace.Tracer
	RED            *observability.REDMetrics
	MetricsHandler http.Handler
	Dark           bool
}

// Server routes dashboard and API requests to an explore.Service.
type Server struct {
	svc      *explore.Service
	defaults config.TrendConfig
	logger   *slog.Logger
	tracer   trace.Tracer
	red      *observability.REDMetrics
	metrics  http.Handler
	dark     bool
}

// New creates a server over svc.
func New(svc *explore.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Server{
		svc:      svc,
		defaults: opts.Defaults,
		logger:   logger,
		tracer:   tracer,
		red:      opts.RED,
		metrics:  opts.MetricsHandler,
		dark:     opts.Dark,
	}
}

// Handler returns the full route table wrapped in request-id, tracing and
// metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/trends", s.handleTrends)
	mux.HandleFunc("GET /api/entities", s.handleEntities)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler(observability.ReadyCheck{
		Name:  "catalog",
		Check: s.checkCatalog,
	}))

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	return requestID(observability.HTTPMiddleware(s.tracer, s.logger, s.red, mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, read, write time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.InfoContext(ctx, "dashboard listening", "addr", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.logger.InfoContext(ctx, "dashboard shutting down")

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) checkCatalog(context.Context) error {
	if len(s.svc.Catalog().Dataset().Works) == 0 {
		return errEmptyCatalog
	}

	return nil
}

var errEmptyCatalog = errors.New("no works loaded")

type requestIDKey struct{}

// requestID propagates or assigns an X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		id := hr.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		rw.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(hr.Context(), requestIDKey{}, id)
		next.ServeHTTP(rw, hr.WithContext(ctx))
	})
}

// RequestID returns the request id stored by the middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

// session identifies the caller for last-request-wins scheduling: the
// X-Session-ID header, else the session cookie, which is issued on first
// visit.
func session(rw http.ResponseWriter, hr *http.Request) string {
	if id := strings.TrimSpace(hr.Header.Get(HeaderSession)); id != "" {
		return id
	}

	if c, err := hr.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(rw, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// channel scopes scheduling to one chart of one session.
func channel(sessionID string, cfg trend.Config) string {
	return sessionID + "/" + string(cfg.Family) + "/" + string(cfg.Curve)
}

type errorBody struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, explore.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ErrBadParam),
		errors.Is(err, lookup.ErrUnknownEntity),
		errors.Is(err, trend.ErrUnknownFamily),
		errors.Is(err, trend.ErrUnknownCurve),
		errors.Is(err, trend.ErrInvalidGranularity),
		errors.Is(err, trend.ErrInvalidTopN),
		errors.Is(err, trend.ErrInvalidDomain),
		errors.Is(err, trend.ErrYearOutOfRange),
		errors.Is(err, trend.ErrTooManyBuckets),
		errors.Is(err, trend.ErrUniqueFamily):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return statusClientClosed
	default:
		return http.StatusInternalServerError
	}
}

// statusClientClosed is the de-facto code for requests abandoned by the client.
const statusClientClosed = 499

func (s *Server) writeError(rw http.ResponseWriter, hr *http.Request, err error) {
	code := statusFor(err)
	body := errorBody{Error: err.Error(), RequestID: RequestID(hr.Context())}

	var unknown *lookup.UnknownEntityError
	if errors.As(err, &unknown) {
		body.Suggestions = unknown.Suggestions
	}

	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(hr.Context(), "request failed", "error", err, "request_id", body.RequestID)
	}

	writeJSON(hr.Context(), s.logger, rw, code, body)
}

func writeJSON(ctx context.Context, logger *slog.Logger, rw http.ResponseWriter, code int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	encodeErr := json.NewEncoder(rw).Encode(v)
	if encodeErr != nil {
		logger.ErrorContext(ctx, "failed to encode JSON response", "error", encodeErr)
	}
}
