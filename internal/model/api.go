package model

import (
	"fmt"
	"strings"
	"time"
)

// Input limits for builder requests.
const (
	MaxPromptLen  = 4 * 1024
	MaxAppNameLen = 200
	MaxSystemLen  = 32 * 1024
)

// APIResponse is the standard success envelope.
type APIResponse struct {
	Data any          `json:"data,omitempty"`
	Meta ResponseMeta `json:"meta"`
}

// APIError is the standard error response envelope.
type APIError struct {
	Error ErrorDetail  `json:"error"`
	Meta  ResponseMeta `json:"meta"`
}

// ResponseMeta contains request metadata included in every response.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorCode constants for standard API error codes.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeConflict      = "CONFLICT"
)

// MatchRequest is the request body for POST /v1/match and the bootstrap call.
type MatchRequest struct {
	Input string `json:"input"`
}

// Validate rejects blank or oversized prompts.
func (r MatchRequest) Validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return fmt.Errorf("input is required")
	}
	if len(r.Input) > MaxPromptLen {
		return fmt.Errorf("input exceeds maximum length of %d bytes", MaxPromptLen)
	}
	return nil
}

// MatchResponse pairs a matched template with its display config.
type MatchResponse struct {
	Template Template  `json:"template"`
	Config   AppConfig `json:"config"`
}

// QuickStartRequest is the request body for POST /v1/sessions/{id}/template.
type QuickStartRequest struct {
	TemplateID string `json:"template_id"`
}

// NameRequest is the request body for PUT /v1/sessions/{id}/name.
type NameRequest struct {
	Name string `json:"name"`
}

// Validate rejects blank or oversized names.
func (r NameRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Name) > MaxAppNameLen {
		return fmt.Errorf("name exceeds maximum length of %d characters", MaxAppNameLen)
	}
	return nil
}

// PromptRequest is the request body for PUT /v1/sessions/{id}/prompt.
type PromptRequest struct {
	SystemPrompt string `json:"system_prompt"`
}

// Validate caps the prompt size. An empty prompt is allowed.
func (r PromptRequest) Validate() error {
	if len(r.SystemPrompt) > MaxSystemLen {
		return fmt.Errorf("system_prompt exceeds maximum length of %d bytes", MaxSystemLen)
	}
	return nil
}

// UploadRequest is the request body for POST /v1/sessions/{id}/datasources.
// Format is "csv" or "json".
type UploadRequest struct {
	Name    string `json:"name"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// Validate checks the format and presence of content.
func (r UploadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	switch SourceType(r.Format) {
	case SourceCSV, SourceJSON:
	default:
		return fmt.Errorf("format must be csv or json (got %q)", r.Format)
	}
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// ChatRequest is the request body for POST /v1/apps/{id}/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the canned assistant reply plus any tool calls it ran or proposed.
type ChatResponse struct {
	Reply     string     `json:"reply"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall records a tool the assistant ran (Result set) or proposed (Result nil).
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    any            `json:"result,omitempty"`
}

// ToolInfo is the wire form of a tool definition.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ShareResponse is the response for POST /v1/apps/{id}/share.
type ShareResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Path      string    `json:"path"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Storage  string `json:"storage"`
	Sessions int    `json:"sessions"`
	Uptime   int64  `json:"uptime_seconds"`
}
