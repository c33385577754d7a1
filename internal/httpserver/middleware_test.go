package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookmarks/backend/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", extractBearerToken("Bearer abc"))
	assert.Equal(t, "abc", extractBearerToken("bearer  abc "))
	assert.Equal(t, "abc", extractBearerToken("BEARER abc"))
	assert.Empty(t, extractBearerToken(""))
	assert.Empty(t, extractBearerToken("Basic abc"))
	assert.Empty(t, extractBearerToken("Bearer"))
	assert.Empty(t, extractBearerToken("abc"))
}

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	h := withCORS(next, []string{"https://app.example"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWithRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("debug", "text", &buf)
	h := withRecover(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "boom")
}

func TestWithLogging_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)
	h := withLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusForbidden, "nope")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/bookmarks/1", nil))

	assert.Contains(t, buf.String(), `"status":403`)
	assert.Contains(t, buf.String(), `"path":"/bookmarks/1"`)
	assert.NotContains(t, buf.String(), "Authorization")
}

func TestRouteTemplate(t *testing.T) {
	tests := map[string]string{
		"/health":                 "/health",
		"/auth/signin":            "/auth/signin",
		"/user/me":                "/user/me",
		"/bookmarks":              "/bookmarks",
		"/bookmarks/42":           "/bookmarks/{id}",
		"/bookmarks/6f1c-uuid":    "/bookmarks/{id}",
		"/bookmarks/":             "unmatched",
		"/bookmarks/1/extra":      "unmatched",
		"/wp-admin/setup.php?x=1": "unmatched",
	}
	for path, want := range tests {
		assert.Equal(t, want, routeTemplate(path), "path %q", path)
	}
}

func TestWithTracing_NamesSpanByRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	h := withTracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/bookmarks/123", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookmarks/456", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "DELETE /bookmarks/{id}", spans[0].Name())
	assert.Equal(t, "GET /bookmarks/{id}", spans[1].Name())
	assert.Contains(t, spans[0].Attributes(), semconv.HTTPRoute("/bookmarks/{id}"))
	assert.Contains(t, spans[0].Attributes(), semconv.URLPath("/bookmarks/123"))
}
