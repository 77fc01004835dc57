package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	mcpclient "github.com/mark3labs/mcp-go/client"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/studio/internal/auth"
	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/datasource"
	"github.com/ashita-ai/studio/internal/mcp"
	"github.com/ashita-ai/studio/internal/mockdata"
	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/ratelimit"
	"github.com/ashita-ai/studio/internal/server"
	"github.com/ashita-ai/studio/internal/storage"
	"github.com/ashita-ai/studio/internal/studio"
)

var testSrv *httptest.Server

func TestMain(m *testing.M) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := storage.Open(ctx, storage.Options{Driver: storage.DriverSQLite, SQLitePath: ":memory:"}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	toolsets, err := studio.NewToolsets(mockdata.New(0), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create toolsets: %v\n", err)
		os.Exit(1)
	}
	registry, err := mcp.NewRegistry(64, "test", logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create mcp registry: %v\n", err)
		os.Exit(1)
	}
	jwtMgr, err := auth.NewJWTManager("", "", time.Hour, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create jwt manager: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(server.ServerConfig{
		Sessions:            studio.NewSessions(time.Hour, 0),
		Store:               store,
		Toolsets:            toolsets,
		MCP:                 registry,
		JWTMgr:              jwtMgr,
		Limiter:             ratelimit.NoopLimiter{},
		Logger:              logger,
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        30 * time.Second,
		Version:             "test",
		MaxRequestBodyBytes: 64 * 1024,
		OpenAPISpec:         []byte("openapi: 3.1.0\n"),
	})
	testSrv = httptest.NewServer(srv.Handler())

	code := m.Run()

	testSrv.Close()
	_ = store.Close()
	os.Exit(code)
}

// envelope decodes both success and error responses.
type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Error *model.ErrorDetail `json:"error"`
	Meta  model.ResponseMeta `json:"meta"`
}

func do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, testSrv.URL+path, rdr)
	require.NoError(t, err)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func data[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

// newSession creates a builder session and returns its id.
func newSession(t *testing.T) string {
	t.Helper()
	status, env := do(t, "POST", "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	return data[studio.State](t, env).ID
}

// launchSalesApp quick-starts the sales template, attaches the sales sample
// set, and launches.
func launchSalesApp(t *testing.T) model.LaunchedApp {
	t.Helper()
	id := newSession(t)
	status, _ := do(t, "POST", "/v1/sessions/"+id+"/template", model.QuickStartRequest{TemplateID: catalog.TemplateSalesAnalytics})
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, "POST", "/v1/sessions/"+id+"/datasources/sample/"+datasource.SampleSales, nil)
	require.Equal(t, http.StatusCreated, status)
	status, env := do(t, "POST", "/v1/sessions/"+id+"/launch", nil)
	require.Equal(t, http.StatusCreated, status)
	return data[model.LaunchedApp](t, env)
}

func TestHealth(t *testing.T) {
	resp, err := http.Get(testSrv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	h := data[model.HealthResponse](t, env)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "connected", h.Storage)
	assert.Equal(t, "test", h.Version)
	assert.Equal(t, resp.Header.Get("X-Request-ID"), env.Meta.RequestID)
}

func TestRequestIDPropagated(t *testing.T) {
	req, err := http.NewRequest("GET", testSrv.URL+"/v1/templates", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "client-chosen")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "client-chosen", resp.Header.Get("X-Request-ID"))
}

func TestOpenAPISpec(t *testing.T) {
	resp, err := http.Get(testSrv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "openapi: 3.1.0\n", string(body))
}

func TestCatalogEndpoints(t *testing.T) {
	status, env := do(t, "GET", "/v1/templates", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data[[]model.Template](t, env), 5)

	status, env = do(t, "GET", "/v1/templates/"+catalog.TemplateSupportOps, nil)
	require.Equal(t, http.StatusOK, status)
	got := data[model.MatchResponse](t, env)
	assert.Equal(t, "Support Operations", got.Template.Name)
	assert.Equal(t, "Support Operations", got.Config.Name)

	status, env = do(t, "GET", "/v1/templates/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, model.ErrCodeNotFound, env.Error.Code)

	status, env = do(t, "GET", "/v1/components", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data[[]model.Component](t, env), 10)

	status, env = do(t, "GET", "/v1/mcp-servers", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data[[]model.MCPServer](t, env), 6)

	status, env = do(t, "GET", "/v1/samples", nil)
	require.Equal(t, http.StatusOK, status)
	samples := data[[]struct {
		Key     string `json:"key"`
		Records int    `json:"records"`
	}](t, env)
	require.Len(t, samples, 4)
	assert.Equal(t, datasource.SampleCustomers, samples[0].Key)
}

func TestMatch(t *testing.T) {
	status, env := do(t, "POST", "/v1/match", model.MatchRequest{Input: "a helpdesk for support tickets"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, catalog.TemplateSupportOps, data[model.MatchResponse](t, env).Template.ID)

	// No keyword hits falls back to the first template.
	status, env = do(t, "POST", "/v1/match", model.MatchRequest{Input: "zzz"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, catalog.TemplateSalesAnalytics, data[model.MatchResponse](t, env).Template.ID)

	status, env = do(t, "POST", "/v1/match", model.MatchRequest{Input: "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.ErrCodeInvalidInput, env.Error.Code)

	status, _ = do(t, "POST", "/v1/match", `{"input":"sales","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, "POST", "/v1/match", `{"input":"`+strings.Repeat("a", 70*1024)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
}

func TestSessionBuilderFlow(t *testing.T) {
	id := newSession(t)
	base := "/v1/sessions/" + id

	// Nothing derived exists before a template is picked.
	status, env := do(t, "GET", base+"/config", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.ErrCodeInvalidInput, env.Error.Code)

	status, env = do(t, "POST", base+"/bootstrap", model.MatchRequest{Input: "track inventory stock levels"})
	require.Equal(t, http.StatusOK, status)
	boot := data[struct {
		Template model.Template `json:"template"`
		Session  studio.State   `json:"session"`
	}](t, env)
	assert.Equal(t, catalog.TemplateInventoryManager, boot.Template.ID)
	require.Len(t, boot.Session.Messages, 2)
	assert.Equal(t, model.RoleAssistant, boot.Session.Messages[1].Role)

	status, env = do(t, "POST", base+"/continue", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.ViewBuilder, data[studio.State](t, env).View)

	status, env = do(t, "PUT", base+"/name", model.NameRequest{Name: "Stock Room"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Stock Room", data[studio.State](t, env).AppName)

	status, _ = do(t, "PUT", base+"/name", model.NameRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, "PUT", base+"/prompt", model.PromptRequest{SystemPrompt: "Count everything."})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Count everything.", data[studio.State](t, env).SystemPrompt)

	status, env = do(t, "POST", base+"/components/"+catalog.ComponentDataTable+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	toggled := data[struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	}](t, env)
	assert.Equal(t, catalog.ComponentDataTable, toggled.ID)
	assert.False(t, toggled.Enabled)

	status, _ = do(t, "POST", base+"/components/nope/toggle", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, "POST", base+"/mcp-servers/"+catalog.ServerInventory+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, data[struct {
		Enabled bool `json:"enabled"`
	}](t, env).Enabled)

	status, env = do(t, "GET", base+"/export", nil)
	require.Equal(t, http.StatusOK, status)
	export := data[model.ExportConfig](t, env)
	assert.Equal(t, "Stock Room", export.Name)
	assert.NotContains(t, export.Components, catalog.ComponentDataTable)
	assert.NotContains(t, export.MCPServers, catalog.ServerInventory)

	status, env = do(t, "GET", base+"/config", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Stock Room", data[model.AppConfig](t, env).Name)

	status, env = do(t, "GET", base+"/preview", nil)
	require.Equal(t, http.StatusOK, status)
	preview := data[studio.Preview](t, env)
	assert.Equal(t, "Stock Room", preview.Title)
	assert.Nil(t, preview.Table)

	status, _ = do(t, "DELETE", base, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, env = do(t, "GET", base, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, model.ErrCodeNotFound, env.Error.Code)
}

func TestSessionDataSources(t *testing.T) {
	id := newSession(t)
	base := "/v1/sessions/" + id

	status, env := do(t, "POST", base+"/datasources", model.UploadRequest{
		Name:    "Team",
		Format:  "csv",
		Content: "name,age,active\nAda,36,true\nLinus,28,false\nGrace,45,true\n",
	})
	require.Equal(t, http.StatusCreated, status)
	team := data[model.DataSource](t, env)
	assert.Len(t, team.Data, 3)

	status, env = do(t, "GET", base+"/datasources/"+team.ID+"/query?active=true", nil)
	require.Equal(t, http.StatusOK, status)
	q := data[struct {
		Rows  []model.Row `json:"rows"`
		Total int         `json:"total"`
	}](t, env)
	assert.Equal(t, 2, q.Total)

	status, env = do(t, "GET", base+"/datasources/"+team.ID+"/query?age=28&name=lin", nil)
	require.Equal(t, http.StatusOK, status)
	q = data[struct {
		Rows  []model.Row `json:"rows"`
		Total int         `json:"total"`
	}](t, env)
	require.Equal(t, 1, q.Total)
	assert.Equal(t, "Linus", q.Rows[0]["name"])

	status, _ = do(t, "GET", base+"/datasources/"+team.ID+"/query?age=old", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, "GET", base+"/datasources/"+team.ID+"/tools", nil)
	require.Equal(t, http.StatusOK, status)
	var names []string
	for _, info := range data[[]model.ToolInfo](t, env) {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"getTeamData", "getTeamStats", "searchTeam", "groupByTeam"}, names)

	status, env = do(t, "POST", base+"/datasources", model.UploadRequest{Name: "Bad", Format: "json", Content: "{nope"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.ErrCodeInvalidInput, env.Error.Code)

	status, _ = do(t, "POST", base+"/datasources", model.UploadRequest{Name: "Bad", Format: "xml", Content: "<a/>"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, "POST", base+"/datasources/sample/"+datasource.SampleSales, nil)
	require.Equal(t, http.StatusCreated, status)
	sales := data[model.DataSource](t, env)

	status, _ = do(t, "POST", base+"/datasources/sample/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, "PUT", base+"/datasources/"+team.ID+"/active", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, team.ID, data[studio.State](t, env).ActiveDataSourceID)

	status, env = do(t, "POST", base+"/synthesize", nil)
	require.Equal(t, http.StatusOK, status)
	prompt := data[model.PromptRequest](t, env).SystemPrompt
	assert.Contains(t, prompt, `- "Team": 3 records with fields: name (string), age (number), active (string)`)
	assert.Contains(t, prompt, `- "Sales Data": 6 records`)

	status, _ = do(t, "DELETE", base+"/datasources/"+sales.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, "DELETE", base+"/datasources/"+sales.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Launching without a template is rejected.
	status, _ = do(t, "POST", base+"/launch", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLaunchedApp(t *testing.T) {
	app := launchSalesApp(t)
	assert.Equal(t, catalog.TemplateSalesAnalytics, app.TemplateID)
	require.Len(t, app.DataSources, 1)

	status, env := do(t, "GET", "/v1/apps/"+app.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, app.Name, data[model.LaunchedApp](t, env).Name)

	status, env = do(t, "GET", "/v1/apps/latest", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, data[model.LaunchedApp](t, env).ID)

	status, _ = do(t, "GET", "/v1/apps/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, "GET", "/v1/apps/"+app.ID+"/suggestions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data[[]model.Suggestion](t, env), 3)
}

func TestAppTools(t *testing.T) {
	app := launchSalesApp(t)
	base := "/v1/apps/" + app.ID

	status, env := do(t, "GET", base+"/tools", nil)
	require.Equal(t, http.StatusOK, status)
	infos := data[[]model.ToolInfo](t, env)
	require.Len(t, infos, 8)
	assert.Equal(t, "getSalesData", infos[0].Name)
	assert.Equal(t, "getSalesDataData", infos[4].Name)

	status, env = do(t, "POST", base+"/tools/getSalesDataStats", nil)
	require.Equal(t, http.StatusOK, status)
	call := data[model.ToolCall](t, env)
	assert.Equal(t, "getSalesDataStats", call.Name)
	stats, ok := call.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(6), stats["totalCount"])
	assert.Equal(t, float64(294000), stats["revenue_sum"])

	status, env = do(t, "POST", base+"/tools/getSalesDataData", map[string]any{"region": "North"})
	require.Equal(t, http.StatusOK, status)
	rows, ok := data[model.ToolCall](t, env).Result.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 2)

	status, _ = do(t, "POST", base+"/tools/groupBySalesData", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, "POST", base+"/tools/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestChat(t *testing.T) {
	app := launchSalesApp(t)

	status, env := do(t, "POST", "/v1/apps/"+app.ID+"/chat", model.ChatRequest{Message: "give me a summary"})
	require.Equal(t, http.StatusOK, status)
	resp := data[model.ChatResponse](t, env)
	assert.Contains(t, resp.Reply, `Here are the statistics for "Sales Data".`)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "getSalesDataStats", resp.ToolCalls[0].Name)

	status, env = do(t, "POST", "/v1/apps/"+app.ID+"/chat", model.ChatRequest{Message: "compare this period"})
	require.Equal(t, http.StatusOK, status)
	resp = data[model.ChatResponse](t, env)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "getMetrics", resp.ToolCalls[0].Name)

	status, _ = do(t, "POST", "/v1/apps/"+app.ID+"/chat", model.ChatRequest{Message: " "})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestShareLinks(t *testing.T) {
	app := launchSalesApp(t)

	status, env := do(t, "POST", "/v1/apps/"+app.ID+"/share", nil)
	require.Equal(t, http.StatusCreated, status)
	share := data[model.ShareResponse](t, env)
	require.NotEmpty(t, share.Token)
	assert.Equal(t, "/v1/shared/"+share.Token, share.Path)
	assert.True(t, share.ExpiresAt.After(time.Now()))

	status, env = do(t, "GET", share.Path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, app.ID, data[model.LaunchedApp](t, env).ID)

	status, env = do(t, "GET", "/v1/shared/not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, model.ErrCodeUnauthorized, env.Error.Code)
}

func TestAppMCP(t *testing.T) {
	app := launchSalesApp(t)

	c, err := mcpclient.NewStreamableHttpClient(testSrv.URL + "/v1/apps/" + app.ID + "/mcp")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	initResult, err := c.Initialize(ctx, mcplib.InitializeRequest{
		Params: mcplib.InitializeParams{
			ClientInfo: mcplib.Implementation{Name: "test-client", Version: "1.0"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "studio-"+app.ID, initResult.ServerInfo.Name)
	assert.Equal(t, "test", initResult.ServerInfo.Version)

	toolsResult, err := c.ListTools(ctx, mcplib.ListToolsRequest{})
	require.NoError(t, err)
	assert.Len(t, toolsResult.Tools, 8)

	result, err := c.CallTool(ctx, mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Name: "getSalesDataStats", Arguments: map[string]any{}},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"totalCount": 6`)
}

func TestAppMCPUnknownApp(t *testing.T) {
	resp, err := http.Post(testSrv.URL+"/v1/apps/00000000-0000-0000-0000-000000000000/mcp", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatWebSocket(t *testing.T) {
	app := launchSalesApp(t)

	url := "ws" + strings.TrimPrefix(testSrv.URL, "http") + "/v1/apps/" + app.ID + "/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	type frame struct {
		Type      string           `json:"type"`
		Reply     string           `json:"reply"`
		ToolCalls []model.ToolCall `json:"tool_calls"`
		Code      string           `json:"code"`
	}
	read := func() frame {
		t.Helper()
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		return f
	}

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", read().Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "message", "message": "summary"}))
	assert.Equal(t, "thinking", read().Type)
	reply := read()
	assert.Equal(t, "assistant_message", reply.Type)
	assert.Contains(t, reply.Reply, "Records: 6")
	require.Len(t, reply.ToolCalls, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "message"}))
	f := read()
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, model.ErrCodeInvalidInput, f.Code)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "dance"}))
	assert.Equal(t, "error", read().Type)
}

func TestChatWebSocketOversizedFrameClosesSocket(t *testing.T) {
	app := launchSalesApp(t)

	url := "ws" + strings.TrimPrefix(testSrv.URL, "http") + "/v1/apps/" + app.ID + "/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// Larger than the 64 KiB body cap the test server runs with.
	big := `{"type":"message","message":"` + strings.Repeat("a", 70<<10) + `"}`
	_ = conn.WriteMessage(websocket.TextMessage, []byte(big))

	_, _, err = conn.ReadMessage()
	require.Error(t, err, "server must close instead of replying")
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "socket should be closed, not left idle")
	}
}

func TestChatWebSocketUnknownApp(t *testing.T) {
	url := "ws" + strings.TrimPrefix(testSrv.URL, "http") + "/v1/apps/00000000-0000-0000-0000-000000000000/chat/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
