package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/config"
	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/server"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func work(program, composer, title string, year int) archive.WorkRow {
	return archive.WorkRow{
		ID:        program + "-" + title,
		ProgramID: program,
		Composer:  composer,
		Title:     title,
		Date:      time.Date(year, time.January, 5, 0, 0, 0, 0, time.UTC),
		Dated:     true,
	}
}

func newHandler(t *testing.T, ds *archive.Dataset, opts server.Options) http.Handler {
	t.Helper()

	svc, err := explore.NewService(explore.NewCatalog(ds), explore.Options{})
	require.NoError(t, err)

	defaults := config.Defaults().Trend
	defaults.StartYear = 1900
	defaults.EndYear = 1960
	opts.Defaults = defaults

	return server.New(svc, opts).Handler()
}

func sampleDataset() *archive.Dataset {
	return &archive.Dataset{
		Works: []archive.WorkRow{
			work("1", "Brahms,  Johannes", "Symphony No. 1", 1901),
			work("1", "Brahms,  Johannes", "Tragic Overture", 1901),
			work("2", "Dvorak,  Antonin", "Symphony No. 9", 1920),
			work("3", "Brahms,  Johannes", "Symphony No. 1", 1955),
		},
	}
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec.Result()
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

type errorBody struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions"`
	RequestID   string   `json:"request_id"`
}

func TestTrends(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/api/trends?family=composer&curve=cumulative&granularity=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(server.HeaderRequestID))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == server.SessionCookie {
			cookie = c
		}
	}

	require.NotNil(t, cookie)

	res := decode[trend.Result](t, resp)
	assert.Equal(t, []string{"1910", "1920", "1930", "1940", "1950", "1960"}, res.Labels)

	final := res.Final()
	require.Len(t, final.Series, 2)
	assert.Equal(t, "Brahms,  Johannes", final.Series[0].Entity)
	assert.Equal(t, 3, final.Series[0].Value)
}

func TestTrends_SessionHeaderSkipsCookie(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/api/trends", http.Header{
		server.HeaderSession:   {"tab-1"},
		server.HeaderRequestID: {"req-42"},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, "req-42", resp.Header.Get(server.HeaderRequestID))
}

func TestTrends_FilterAndWorkFamily(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	q := url.Values{
		"family":   {"work"},
		"curve":    {"step"},
		"unique":   {"true"},
		"entities": {"symphony no. 9; Tragic Overture"},
	}

	resp := get(t, h, "/api/trends?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[trend.Result](t, resp)
	assert.False(t, res.Config.Unique)
	assert.Equal(t, 2, res.Config.TopN)
	assert.ElementsMatch(t, []string{"Symphony No. 9", "Tragic Overture"}, res.Config.Entities)
}

func TestTrends_Errors(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "non_integer", query: "granularity=abc", want: "not an integer"},
		{name: "zero_granularity", query: "granularity=0", want: "granularity"},
		{name: "bad_family", query: "family=conductor", want: "unknown trend family"},
		{name: "reversed_domain", query: "start=1990&end=1900", want: "start year"},
		{name: "end_year_overflow", query: "start=2020&end=9223372036854775807&granularity=25", want: "year out of range"},
		{name: "too_many_buckets", query: "start=1&end=9999&granularity=1", want: "domain too wide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := get(t, h, "/api/trends?"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decode[errorBody](t, resp)
			assert.Contains(t, body.Error, tt.want)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestTrends_UnknownEntitySuggests(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/api/trends?"+url.Values{"entities": {"Brahms"}}.Encode(), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[errorBody](t, resp)
	assert.Contains(t, body.Suggestions, "Brahms,  Johannes")
}

func TestEntities(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/api/entities?family=work&q=symphony", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Family   trend.Family     `json:"family"`
		Entities []explore.Entity `json:"entities"`
	}](t, resp)

	assert.Equal(t, trend.FamilyWork, body.Family)
	require.Len(t, body.Entities, 2)
	assert.Equal(t, "Symphony No. 1 - Brahms,  Johannes", body.Entities[0].Display)
	assert.Equal(t, 2, body.Entities[0].Total)

	resp = get(t, h, "/api/entities?family=work&limit=-1", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/api/summary?limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s := decode[archive.Summary](t, resp)
	assert.Equal(t, 4, s.Works)
	assert.Equal(t, []trend.Ranked{{Entity: "Brahms,  Johannes", Value: 3}}, s.TopComposers)
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/dashboard?family=work&curve=step&granularity=25", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	html := string(raw)
	assert.Contains(t, html, "Work popularity per period")
	assert.Contains(t, html, `<option value="25" selected>25</option>`)
	assert.Contains(t, html, `<option value="step" selected>step</option>`)
	assert.Contains(t, html, `name="unique" value="true" disabled`)
	assert.Contains(t, html, `<input type="hidden" name="form" value="1">`)
}

func TestDashboard_SubmittedFormClearsToggles(t *testing.T) {
	t.Parallel()

	svc, err := explore.NewService(explore.NewCatalog(sampleDataset()), explore.Options{})
	require.NoError(t, err)

	defaults := config.Defaults().Trend
	defaults.Markers = true

	h := server.New(svc, server.Options{Defaults: defaults}).Handler()

	resp := get(t, h, "/api/trends?form=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[trend.Result](t, resp).Config.Markers)

	resp = get(t, h, "/api/trends", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[trend.Result](t, resp).Config.Markers)
}

func TestRootRedirects(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestHealthAndReady(t *testing.T) {
	t.Parallel()

	h := newHandler(t, sampleDataset(), server.Options{})

	resp := get(t, h, "/healthz", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, h, "/readyz", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	empty := newHandler(t, &archive.Dataset{}, server.Options{})

	resp = get(t, empty, "/readyz", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "catalog")
}

func TestMetricsRoute(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(rw, "encore_trend_builds_total 1\n")
	})

	h := newHandler(t, sampleDataset(), server.Options{MetricsHandler: metrics})

	resp := get(t, h, "/metrics", nil)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "encore_trend_builds_total"))

	without := newHandler(t, sampleDataset(), server.Options{})

	resp = get(t, without, "/metrics", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	svc, err := explore.NewService(explore.NewCatalog(sampleDataset()), explore.Options{})
	require.NoError(t, err)

	srv := server.New(svc, server.Options{Defaults: config.Defaults().Trend})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0", time.Second, time.Second)
	}()

	cancel()

	select {
	case serveErr := <-done:
		require.NoError(t, serveErr)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
