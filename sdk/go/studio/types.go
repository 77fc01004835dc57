package studio

import (
	"encoding/json"
	"time"
)

// Component is a UI widget a generated app may render.
type Component struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// MCPServer is a named bundle of tools.
type MCPServer struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	Tools       []string `json:"tools"`
}

// Template is a predefined app type.
type Template struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Icon         string      `json:"icon"`
	SystemPrompt string      `json:"system_prompt"`
	Components   []Component `json:"components"`
	MCPServers   []MCPServer `json:"mcp_servers"`
	Keywords     []string    `json:"keywords"`
}

// AppConfig is the display config of a template or session.
type AppConfig struct {
	Template     string            `json:"template"`
	Name         string            `json:"name"`
	Components   []string          `json:"components"`
	MCPServers   []AppConfigServer `json:"mcp_servers"`
	SystemPrompt string            `json:"system_prompt"`
}

// AppConfigServer is an enabled server and its tools.
type AppConfigServer struct {
	Name  string   `json:"name"`
	Tools []string `json:"tools"`
}

// MatchResult is a matched template with its display config.
type MatchResult struct {
	Template Template  `json:"template"`
	Config   AppConfig `json:"config"`
}

// DataField describes one column of a data source.
type DataField struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Sample any    `json:"sample,omitempty"`
}

// DataSource is uploaded or sample tabular data.
type DataSource struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Fields    []DataField      `json:"fields"`
	Data      []map[string]any `json:"data"`
	CreatedAt time.Time        `json:"created_at"`
}

// Message is one bootstrap conversation entry.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the state of a builder session.
type Session struct {
	ID                 string       `json:"id"`
	AppName            string       `json:"app_name"`
	Template           *Template    `json:"selected_template"`
	SystemPrompt       string       `json:"system_prompt"`
	Components         []Component  `json:"components"`
	MCPServers         []MCPServer  `json:"mcp_servers"`
	DataSources        []DataSource `json:"data_sources"`
	ActiveDataSourceID string       `json:"active_data_source_id,omitempty"`
	View               string       `json:"view"`
	Messages           []Message    `json:"messages"`
	Generating         bool         `json:"is_generating"`
	Launched           bool         `json:"is_launched"`
	LaunchedAppID      string       `json:"launched_app_id,omitempty"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// BootstrapResult is the outcome of Bootstrap and QuickStart.
type BootstrapResult struct {
	Template Template `json:"template"`
	Session  Session  `json:"session"`
}

// LaunchedApp is a persisted app snapshot.
type LaunchedApp struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	TemplateID        string       `json:"template_id"`
	SystemPrompt      string       `json:"system_prompt"`
	EnabledComponents []string     `json:"enabled_components"`
	EnabledServers    []string     `json:"enabled_servers"`
	DataSources       []DataSource `json:"data_sources"`
	LaunchedAt        time.Time    `json:"launched_at"`
}

// ToolInfo describes a runtime tool.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToolCall is a tool invocation and its result. Result is left raw so
// callers can decode it into their own types.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments map[string]any  `json:"arguments,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// ChatReply is the assistant's answer.
type ChatReply struct {
	Reply     string     `json:"reply"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ShareLink is an issued share token.
type ShareLink struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Path      string    `json:"path"`
}

// Health is the server health report.
type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Storage  string `json:"storage"`
	Sessions int    `json:"sessions"`
	Uptime   int64  `json:"uptime_seconds"`
}

type apiEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
