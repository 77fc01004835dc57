package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is an HTTP client for the studio API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds the configuration for creating a new Client.
type Config struct {
	// BaseURL is the studio server URL (e.g., "http://localhost:8080").
	BaseURL string

	// HTTPClient is an optional custom HTTP client. If nil, a default client
	// with the configured Timeout is used.
	HTTPClient *http.Client

	// Timeout is the HTTP request timeout. Defaults to 30s.
	Timeout time.Duration
}

// NewClient creates a new studio API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("studio: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("studio: invalid BaseURL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// Health returns the server health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Templates lists the template catalog.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var out []Template
	if err := c.get(ctx, "/v1/templates", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Match returns the template best matching input.
func (c *Client) Match(ctx context.Context, input string) (*MatchResult, error) {
	var out MatchResult
	if err := c.post(ctx, "/v1/match", map[string]string{"input": input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession starts a builder session.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.post(ctx, "/v1/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession returns the current state of a session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var out Session
	if err := c.get(ctx, "/v1/sessions/"+url.PathEscape(sessionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession drops a session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(sessionID), nil, nil)
}

// Bootstrap matches input to a template and applies it to the session.
func (c *Client) Bootstrap(ctx context.Context, sessionID, input string) (*BootstrapResult, error) {
	var out BootstrapResult
	path := "/v1/sessions/" + url.PathEscape(sessionID) + "/bootstrap"
	if err := c.post(ctx, path, map[string]string{"input": input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuickStart applies templateID to the session without matching.
func (c *Client) QuickStart(ctx context.Context, sessionID, templateID string) (*BootstrapResult, error) {
	var out BootstrapResult
	path := "/v1/sessions/" + url.PathEscape(sessionID) + "/template"
	if err := c.post(ctx, path, map[string]string{"template_id": templateID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddSample adds a built-in sample data set to the session.
func (c *Client) AddSample(ctx context.Context, sessionID, key string) (*DataSource, error) {
	var out DataSource
	path := "/v1/sessions/" + url.PathEscape(sessionID) + "/datasources/sample/" + url.PathEscape(key)
	if err := c.post(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload parses content as format ("csv" or "json") and adds it to the session.
func (c *Client) Upload(ctx context.Context, sessionID, name, format, content string) (*DataSource, error) {
	var out DataSource
	body := map[string]string{"name": name, "format": format, "content": content}
	if err := c.post(ctx, "/v1/sessions/"+url.PathEscape(sessionID)+"/datasources", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Launch snapshots the session into a launched app.
func (c *Client) Launch(ctx context.Context, sessionID string) (*LaunchedApp, error) {
	var out LaunchedApp
	if err := c.post(ctx, "/v1/sessions/"+url.PathEscape(sessionID)+"/launch", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetApp returns a launched app.
func (c *Client) GetApp(ctx context.Context, appID string) (*LaunchedApp, error) {
	var out LaunchedApp
	if err := c.get(ctx, "/v1/apps/"+url.PathEscape(appID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTools lists the runtime tools of a launched app.
func (c *Client) ListTools(ctx context.Context, appID string) ([]ToolInfo, error) {
	var out []ToolInfo
	if err := c.get(ctx, "/v1/apps/"+url.PathEscape(appID)+"/tools", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InvokeTool runs a tool with args. A nil args map sends no body.
func (c *Client) InvokeTool(ctx context.Context, appID, name string, args map[string]any) (*ToolCall, error) {
	var out ToolCall
	var body any
	if args != nil {
		body = args
	}
	path := "/v1/apps/" + url.PathEscape(appID) + "/tools/" + url.PathEscape(name)
	if err := c.post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends message to a launched app's assistant.
func (c *Client) Chat(ctx context.Context, appID, message string) (*ChatReply, error) {
	var out ChatReply
	path := "/v1/apps/" + url.PathEscape(appID) + "/chat"
	if err := c.post(ctx, path, map[string]string{"message": message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Share issues a share token for a launched app.
func (c *Client) Share(ctx context.Context, appID string) (*ShareLink, error) {
	var out ShareLink
	if err := c.post(ctx, "/v1/apps/"+url.PathEscape(appID)+"/share", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveShare returns the app a share token points at.
func (c *Client) ResolveShare(ctx context.Context, token string) (*LaunchedApp, error) {
	var out LaunchedApp
	if err := c.get(ctx, "/v1/shared/"+url.PathEscape(token), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- HTTP transport helpers ---

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, body any, dest any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, dest)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, dest any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("studio: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("studio: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("studio: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return handleResponse(resp, dest)
}

// handleResponse checks the status code and decodes the "data" field of the
// response envelope into dest.
func handleResponse(resp *http.Response, dest any) error {
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("studio: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp.StatusCode, respBody)
	}
	if resp.StatusCode == http.StatusNoContent || dest == nil {
		return nil
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("studio: decode response envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return fmt.Errorf("studio: decode response data: %w", err)
	}
	return nil
}

func parseErrorResponse(statusCode int, body []byte) error {
	var errResp apiErrorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Code == "" {
		return &Error{
			StatusCode: statusCode,
			Code:       http.StatusText(statusCode),
			Message:    string(body),
		}
	}
	return &Error{
		StatusCode: statusCode,
		Code:       errResp.Error.Code,
		Message:    errResp.Error.Message,
	}
}
