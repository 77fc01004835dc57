package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ashita-ai/studio/internal/model"
)

const promptPreviewLen = 100

// GenerateConfig returns the display config for a template: enabled
// component names, enabled servers with their tools, and a truncated prompt.
func GenerateConfig(t model.Template) model.AppConfig {
	cfg := model.AppConfig{
		Template:     t.ID,
		Name:         t.Name,
		Components:   []string{},
		MCPServers:   []model.AppConfigServer{},
		SystemPrompt: truncate(t.SystemPrompt, promptPreviewLen) + "...",
	}
	for _, c := range t.Components {
		if c.Enabled {
			cfg.Components = append(cfg.Components, c.Name)
		}
	}
	for _, s := range t.MCPServers {
		if s.Enabled {
			cfg.MCPServers = append(cfg.MCPServers, model.AppConfigServer{
				Name:  s.Name,
				Tools: append([]string(nil), s.Tools...),
			})
		}
	}
	return cfg
}

// ExportConfig returns the config shown in the code preview: enabled ids and
// the full system prompt.
func ExportConfig(appName, templateID, systemPrompt string, components []model.Component, servers []model.MCPServer) model.ExportConfig {
	return model.ExportConfig{
		Name:         appName,
		Template:     templateID,
		Components:   model.EnabledComponentIDs(components),
		MCPServers:   model.EnabledServerIDs(servers),
		SystemPrompt: systemPrompt,
	}
}

// EnabledToolNames returns the tools of enabled servers, trimmed,
// deduplicated and sorted.
func EnabledToolNames(servers []model.MCPServer) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, s := range servers {
		if !s.Enabled {
			continue
		}
		for _, tool := range s.Tools {
			tool = strings.TrimSpace(tool)
			if tool == "" || seen[tool] {
				continue
			}
			seen[tool] = true
			names = append(names, tool)
		}
	}
	sort.Strings(names)
	return names
}

// Summary describes a template selection in one paragraph.
func Summary(t model.Template, components []model.Component, servers []model.MCPServer) string {
	var comps, srvs []string
	for _, c := range components {
		if c.Enabled {
			comps = append(comps, c.Name)
		}
	}
	for _, s := range servers {
		if s.Enabled {
			srvs = append(srvs, s.Name)
		}
	}
	return fmt.Sprintf("Picked the %s template. Enabled components: %s. Enabled MCP servers: %s.",
		t.Name, joinOrNone(comps), joinOrNone(srvs))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
