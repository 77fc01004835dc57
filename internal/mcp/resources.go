package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

const (
	uriConfig       = "app://config"
	uriSystemPrompt = "app://system-prompt"
	uriActivity     = "app://activity"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(uriConfig, "App Config",
			mcplib.WithResourceDescription("Template, enabled components, servers, data sources and tools of this app"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleConfig,
	)

	s.mcpServer.AddResource(
		mcplib.NewResource(uriSystemPrompt, "System Prompt",
			mcplib.WithResourceDescription("The system prompt the app was launched with"),
			mcplib.WithMIMEType("text/plain"),
		),
		s.handleSystemPrompt,
	)

	s.mcpServer.AddResource(
		mcplib.NewResource(uriActivity, "Recent Tool Calls",
			mcplib.WithResourceDescription("The most recent tool calls made through this server, newest first"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleActivity,
	)
}

// appConfig is the app://config document.
type appConfig struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Template    string       `json:"template"`
	Components  []string     `json:"components"`
	MCPServers  []string     `json:"mcp_servers"`
	DataSources []sourceInfo `json:"data_sources"`
	Tools       []string     `json:"tools"`
}

type sourceInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Records int      `json:"records"`
	Fields  []string `json:"fields"`
}

func (s *Server) handleConfig(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	cfg := appConfig{
		ID:          s.app.ID,
		Name:        s.app.Name,
		Template:    s.app.TemplateID,
		Components:  nonNil(s.app.EnabledComponents),
		MCPServers:  nonNil(s.app.EnabledServers),
		DataSources: []sourceInfo{},
		Tools:       s.tools.Names(),
	}
	for _, ds := range s.app.DataSources {
		cfg.DataSources = append(cfg.DataSources, sourceInfo{
			ID:      ds.ID,
			Name:    ds.Name,
			Type:    string(ds.Type),
			Records: len(ds.Data),
			Fields:  ds.FieldNames(),
		})
	}
	return jsonContents(request.Params.URI, cfg)
}

func (s *Server) handleSystemPrompt(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     s.app.SystemPrompt,
		},
	}, nil
}

func (s *Server) handleActivity(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return jsonContents(request.Params.URI, s.calls.Recent())
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
