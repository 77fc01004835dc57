package model

import "time"

// View is the builder screen a session is on.
type View string

const (
	ViewBootstrap View = "bootstrap"
	ViewBuilder   View = "builder"
)

// Message is one entry of a bootstrap or chat conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LaunchedApp is the snapshot of builder state that drives the preview and
// chat route after launch.
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

// AppConfig is the display config shown in the builder's config panel.
type AppConfig struct {
	Template     string            `json:"template"`
	Name         string            `json:"name"`
	Components   []string          `json:"components"`
	MCPServers   []AppConfigServer `json:"mcp_servers"`
	SystemPrompt string            `json:"system_prompt"`
}

// AppConfigServer is an enabled server in AppConfig.
type AppConfigServer struct {
	Name  string   `json:"name"`
	Tools []string `json:"tools"`
}

// ExportConfig is the config shown in the code preview tab.
type ExportConfig struct {
	Name         string   `json:"name"`
	Template     string   `json:"template"`
	Components   []string `json:"components"`
	MCPServers   []string `json:"mcp_servers"`
	SystemPrompt string   `json:"system_prompt"`
}

// Suggestion is a canned chat prompt offered on the launched app.
type Suggestion struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
