package observability_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/observability"
)

func serveJSON(t *testing.T, h http.Handler, path string) (int, map[string]string) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec.Code, body
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	code, body := serveJSON(t, observability.HealthHandler(), "/healthz")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestReadyHandler(t *testing.T) {
	t.Parallel()

	pass := observability.ReadyCheck{Name: "store", Check: func(context.Context) error { return nil }}
	fail := observability.ReadyCheck{Name: "catalog", Check: func(context.Context) error { return errors.New("not loaded") }}

	t.Run("no_checks", func(t *testing.T) {
		t.Parallel()

		code, _ := serveJSON(t, observability.ReadyHandler(), "/readyz")
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("all_pass", func(t *testing.T) {
		t.Parallel()

		code, body := serveJSON(t, observability.ReadyHandler(pass, pass), "/readyz")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("first_failure_named", func(t *testing.T) {
		t.Parallel()

		code, body := serveJSON(t, observability.ReadyHandler(pass, fail), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unavailable", body["status"])
		assert.Equal(t, "catalog", body["failed"])
		assert.Equal(t, "not loaded", body["reason"])
	})
}
