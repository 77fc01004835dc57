package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"generated when missing", "", false},
		{"client value kept", "abc-123", true},
		{"oversized value replaced", strings.Repeat("x", 129), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
			if tt.keep {
				assert.Equal(t, tt.header, seen)
			} else {
				assert.Len(t, seen, 36)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := requestIDMiddleware(recoveryMiddleware(discardLogger(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body model.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, model.ErrCodeInternalError, body.Error.Code)
	assert.NotEmpty(t, body.Meta.RequestID)
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := loggingMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/brew", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &line))
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "/brew", line["path"])
}

func TestStatusWriterPassThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	sw.WriteHeader(http.StatusAccepted)
	assert.Equal(t, http.StatusAccepted, sw.statusCode)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	sw.Flush()
	assert.True(t, rec.Flushed)
	assert.Same(t, rec, sw.Unwrap())

	// httptest.ResponseRecorder cannot be hijacked.
	_, _, err := sw.Hijack()
	assert.Error(t, err)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	securityHeadersMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string, max int64) (*httptest.ResponseRecorder, model.NameRequest, error) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/", strings.NewReader(body))
		var out model.NameRequest
		err := decodeJSON(rec, req, &out, max)
		if err != nil {
			handleDecodeError(rec, req, err)
		}
		return rec, out, err
	}

	_, out, err := decode(`{"name":"Ops"}`, 1024)
	require.NoError(t, err)
	assert.Equal(t, "Ops", out.Name)

	rec, _, err := decode(`{"name":"Ops","color":"red"}`, 1024)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _, err = decode(`{"name":"`+strings.Repeat("a", 100)+`"}`, 16)
	require.Error(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds 16 bytes")
}

func TestRateLimitKeySkipsMeta(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", ""},
		{"/openapi.yaml", ""},
		{"/v1/templates", "192.0.2.1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		assert.Equal(t, tt.want, rateLimitKey(req), tt.path)
	}
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) { return false, nil }
func (denyLimiter) Close() error { return nil }

func TestRateLimitedResponseCarriesRequestID(t *testing.T) {
	h := requestIDMiddleware(
		ratelimit.Middleware(denyLimiter{}, rateLimitKey, requestIDFromRequest, discardLogger())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run when throttled")
			})))

	req := httptest.NewRequest("GET", "/v1/templates", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	var body model.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.ErrCodeRateLimited, body.Error.Code)
	assert.Equal(t, "req-42", body.Meta.RequestID)
}
