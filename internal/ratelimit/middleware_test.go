package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/studio/internal/model"
)

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) { return false, errors.New("down") }
func (brokenLimiter) Close() error                                  { return nil }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func serve(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/templates", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareThrottlesPerIP(t *testing.T) {
	m, _ := newTestLimiter(t, 1, 1)
	reqID := func(*http.Request) string { return "req-1" }
	h := Middleware(m, IPKeyFunc, reqID, slog.New(slog.NewTextHandler(io.Discard, nil)))(okHandler())

	assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.1:5000").Code)

	rec := serve(h, "10.0.0.1:5001")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body model.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.ErrCodeRateLimited, body.Error.Code)
	assert.Equal(t, "req-1", body.Meta.RequestID)

	assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.2:5000").Code, "other clients are unaffected")
}

func TestMiddlewareFailsOpen(t *testing.T) {
	h := Middleware(brokenLimiter{}, IPKeyFunc, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))(okHandler())
	assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.1:1").Code)
}

func TestMiddlewareSkipsEmptyKey(t *testing.T) {
	m, _ := newTestLimiter(t, 1, 1)
	h := Middleware(m, func(*http.Request) string { return "" }, nil, slog.Default())(okHandler())
	for range 3 {
		assert.Equal(t, http.StatusNoContent, serve(h, "10.0.0.1:1").Code)
	}
}

func TestIPKeyFunc(t *testing.T) {
	for remote, want := range map[string]string{
		"192.168.1.1:8080": "192.168.1.1",
		"[::1]:443":        "::1",
		"no-port":          "no-port",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		assert.Equal(t, want, IPKeyFunc(req), remote)
	}
}
