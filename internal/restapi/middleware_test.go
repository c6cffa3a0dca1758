package restapi

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func TestCompressionMiddleware(t *testing.T) {
	large := strings.Repeat(`{"test": "data"}`, 1000)
	handler := CompressionMiddleware(okHandler(large))

	t.Run("compresses when gzip is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
		reader, err := gzip.NewReader(bytes.NewReader(recorder.Body.Bytes()))
		require.NoError(t, err)
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, large, string(decompressed))
		assert.Less(t, recorder.Body.Len(), len(large))
	})

	t.Run("plain without Accept-Encoding", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Empty(t, recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, large, recorder.Body.String())
	})

	t.Run("small responses stay plain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()
		CompressionMiddleware(okHandler(`{"ok":true}`)).ServeHTTP(recorder, req)

		assert.Empty(t, recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, `{"ok":true}`, recorder.Body.String())
	})
}

func TestSecurityHeaders(t *testing.T) {
	recorder := httptest.NewRecorder()
	securityHeaders(okHandler("test response")).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/test", nil))

	headers := recorder.Header()
	assert.Equal(t, "test response", recorder.Body.String())
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", headers.Get("Strict-Transport-Security"))
	assert.Equal(t, "strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))
	assert.Contains(t, headers.Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, headers.Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeadersPreflight(t *testing.T) {
	called := false
	handler := securityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/where/plan-route.json", nil)
	req.Header.Set("Origin", "https://example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, called)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", recorder.Header().Get("Access-Control-Allow-Methods"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimitMiddleware(5, time.Second)
	defer limiter.Stop()
	handler := limiter.Handler(okHandler(`{}`))

	count := func(key string, n int) (allowed, blocked int) {
		for i := 0; i < n; i++ {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/test?key="+key, nil))
			switch recorder.Code {
			case http.StatusOK:
				allowed++
			case http.StatusTooManyRequests:
				blocked++
			}
		}
		return allowed, blocked
	}

	allowed, blocked := count("alpha", 10)
	assert.InDelta(t, 5, allowed, 1)
	assert.InDelta(t, 5, blocked, 1)

	// Keys have separate buckets.
	allowed, _ = count("beta", 5)
	assert.Equal(t, 5, allowed)
}

func TestRateLimitExceededResponse(t *testing.T) {
	limiter := NewRateLimitMiddleware(1, time.Second)
	defer limiter.Stop()
	handler := limiter.Handler(okHandler(`{}`))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, "1", second.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusTooManyRequests), body["code"])
	assert.Contains(t, body["text"], "Rate limit exceeded")
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := NewRateLimitMiddleware(0, time.Second)
	limiter.Stop()
	limiter.Stop()

	handler := limiter.Handler(okHandler(`{}`))
	for i := 0; i < 50; i++ {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/test", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
	}
}

func TestRequestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := NewRequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/where/plan-route.json?key=secret", nil)
	req.Header.Set("User-Agent", "wayfinder-test")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/where/plan-route.json", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "wayfinder-test", entry["user_agent"])
	assert.NotContains(t, buf.String(), "secret")
}

func TestHandlerChain(t *testing.T) {
	api := createTestApi(t)

	req := httptest.NewRequest(http.MethodGet, "/api/where/current-time.json?key="+testAPIKey, nil)
	recorder := httptest.NewRecorder()
	api.Handler().ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))

	debug := httptest.NewRecorder()
	api.Handler().ServeHTTP(debug, httptest.NewRequest(http.MethodGet, "/debug/?dataType=statistics", nil))
	assert.Equal(t, http.StatusOK, debug.Code)
	assert.Contains(t, debug.Body.String(), "Transit Graph - Statistics")
}
