package model

// Component is a UI widget a generated app may render.
type Component struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// MCPServer is a named bundle of mock tools exposed to the chat assistant.
type MCPServer struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	Tools       []string `json:"tools"`
}

// Template is a predefined app type: system prompt plus component and
// server toggles. Catalog templates are never mutated; callers work on a clone.
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

// EnabledComponentIDs returns the ids of enabled components in declaration order.
func EnabledComponentIDs(components []Component) []string {
	ids := make([]string, 0, len(components))
	for _, c := range components {
		if c.Enabled {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// EnabledServerIDs returns the ids of enabled servers in declaration order.
func EnabledServerIDs(servers []MCPServer) []string {
	ids := make([]string, 0, len(servers))
	for _, s := range servers {
		if s.Enabled {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
