package studio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// mockServer creates an httptest server that mimics the studio API.
func mockServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range handlers {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: serverURL + "/", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty BaseURL")
	}
}

func TestMatchSendsInput(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /v1/match": func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode body: %v", err)
			}
			if req["input"] != "track tickets" {
				t.Errorf("expected input 'track tickets', got %q", req["input"])
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"data": map[string]any{
					"template": map[string]any{"id": "support-ops", "name": "Support Ops"},
					"config": map[string]any{
						"template":    "Support Ops",
						"components":  []string{"chat"},
						"mcp_servers": []map[string]any{{"name": "Ticketing", "tools": []string{"getTickets"}}},
					},
				},
				"meta": map[string]any{"request_id": "req-1"},
			})
		},
	})

	c := newTestClient(t, srv.URL)
	res, err := c.Match(context.Background(), "track tickets")
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if res.Template.ID != "support-ops" {
		t.Errorf("expected support-ops, got %q", res.Template.ID)
	}
	if len(res.Config.MCPServers) != 1 || res.Config.MCPServers[0].Tools[0] != "getTickets" {
		t.Errorf("unexpected config servers: %+v", res.Config.MCPServers)
	}
}

func TestBuilderFlow(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"id": "s1", "view": "home"}})
		},
		"POST /v1/sessions/{id}/template": func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
				"template": map[string]any{"id": req["template_id"]},
				"session":  map[string]any{"id": r.PathValue("id"), "view": "editor", "app_name": "Sales Analytics"},
			}})
		},
		"POST /v1/sessions/{id}/datasources/sample/{key}": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
				"id": "ds1", "name": "Sales Data", "type": "sample",
				"data": []map[string]any{{"region": "North", "revenue": 45000}},
			}})
		},
		"POST /v1/sessions/{id}/launch": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
				"id": "app-1", "name": "Sales Analytics", "template_id": "sales-analytics",
			}})
		},
		"DELETE /v1/sessions/{id}": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})

	ctx := context.Background()
	c := newTestClient(t, srv.URL)

	sess, err := c.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	boot, err := c.QuickStart(ctx, sess.ID, "sales-analytics")
	if err != nil {
		t.Fatalf("QuickStart failed: %v", err)
	}
	if boot.Template.ID != "sales-analytics" || boot.Session.View != "editor" {
		t.Errorf("unexpected quick start result: %+v", boot)
	}
	ds, err := c.AddSample(ctx, sess.ID, "sales")
	if err != nil {
		t.Fatalf("AddSample failed: %v", err)
	}
	if ds.Data[0]["region"] != "North" {
		t.Errorf("expected North row, got %v", ds.Data[0])
	}
	app, err := c.Launch(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if app.ID != "app-1" || app.TemplateID != "sales-analytics" {
		t.Errorf("unexpected app: %+v", app)
	}
	if err := c.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
}

func TestInvokeToolBody(t *testing.T) {
	var bodies []string
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /v1/apps/{id}/tools/{name}": func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(data))
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
				"name":   r.PathValue("name"),
				"result": map[string]any{"totalCount": 6},
			}})
		},
	})

	c := newTestClient(t, srv.URL)
	call, err := c.InvokeTool(context.Background(), "app-1", "getSalesDataStats", nil)
	if err != nil {
		t.Fatalf("InvokeTool failed: %v", err)
	}
	var stats struct {
		TotalCount int `json:"totalCount"`
	}
	if err := json.Unmarshal(call.Result, &stats); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if stats.TotalCount != 6 {
		t.Errorf("expected 6, got %d", stats.TotalCount)
	}

	if _, err := c.InvokeTool(context.Background(), "app-1", "getSalesDataData", map[string]any{"limit": 2}); err != nil {
		t.Fatalf("InvokeTool failed: %v", err)
	}
	if len(bodies) != 2 || bodies[0] != "" || !strings.Contains(bodies[1], `"limit":2`) {
		t.Errorf("unexpected request bodies: %q", bodies)
	}
}

func TestErrorTypes(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /v1/apps/{id}": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error": map[string]any{"code": "NOT_FOUND", "message": "app not found"},
			})
		},
		"GET /v1/shared/{token}": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"code": "UNAUTHORIZED", "message": "invalid or expired share token"},
			})
		},
		"POST /v1/apps/{id}/chat": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("slow down"))
		},
	})

	ctx := context.Background()
	c := newTestClient(t, srv.URL)

	_, err := c.GetApp(ctx, "missing")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Code != "NOT_FOUND" || apiErr.Message != "app not found" {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := c.ResolveShare(ctx, "bogus"); !IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}

	_, err = c.Chat(ctx, "app-1", "hi")
	if !IsRateLimited(err) {
		t.Errorf("expected rate limited, got %v", err)
	}
	if !errors.As(err, &apiErr) || apiErr.Message != "slow down" {
		t.Errorf("expected raw body message, got %v", err)
	}
	if IsConflict(err) || IsInvalidInput(err) {
		t.Error("429 must not match other helpers")
	}
}

func TestTimeout(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /health": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	})

	c, err := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := c.Health(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}
