package mcp

import (
	"context"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/tools"
)

func (s *Server) registerPrompts() {
	// agent-setup: the app's system prompt plus the tools it may call.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("agent-setup",
			mcplib.WithPromptDescription("System prompt for an agent acting as this app, with its available tools"),
		),
		s.handleAgentSetupPrompt,
	)

	// analyze-data: walk through one data source with its generated tools.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("analyze-data",
			mcplib.WithPromptDescription("Explore one of the app's data sources using its generated tools"),
			mcplib.WithArgument("source",
				mcplib.ArgumentDescription("Data source name or id"),
				mcplib.RequiredArgument(),
			),
		),
		s.handleAnalyzeDataPrompt,
	)
}

func (s *Server) handleAgentSetupPrompt(_ context.Context, _ mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	var b strings.Builder
	b.WriteString(s.app.SystemPrompt)
	b.WriteString("\n\n## Tools\n")
	infos := s.tools.Infos()
	if len(infos) == 0 {
		b.WriteString("\nNo tools are available.")
	}
	for _, info := range infos {
		fmt.Fprintf(&b, "\n- **%s**: %s", info.Name, info.Description)
	}
	b.WriteString("\n\nCall a tool whenever the answer depends on app data. Do not invent records.")

	return &mcplib.GetPromptResult{
		Description: fmt.Sprintf("Agent setup for %s", s.app.Name),
		Messages: []mcplib.PromptMessage{
			{
				Role:    mcplib.RoleUser,
				Content: mcplib.TextContent{Type: "text", Text: b.String()},
			},
		},
	}, nil
}

func (s *Server) handleAnalyzeDataPrompt(_ context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	key := strings.TrimSpace(request.Params.Arguments["source"])
	if key == "" {
		return nil, fmt.Errorf("source argument is required")
	}
	ds, ok := s.findSource(key)
	if !ok {
		return nil, fmt.Errorf("unknown data source %q", key)
	}

	text := fmt.Sprintf(`Analyze the data source "%s" (%d records, fields: %s).

1. Call %s to see the record count and numeric totals.
2. Call %s with a small set of filters to inspect representative records.
3. Use %s for free-text lookups.`,
		ds.Name, len(ds.Data), strings.Join(ds.FieldNames(), ", "),
		tools.GetStatsTool(ds).Name(), tools.GetDataTool(ds).Name(), tools.SearchTool(ds).Name())
	if len(ds.FieldsOfType(model.FieldString)) > 0 {
		text += fmt.Sprintf("\n4. Call %s on a categorical field to compare groups.", tools.GroupByTool(ds).Name())
	}
	text += "\n\nSummarize what stands out and suggest one follow-up question."

	return &mcplib.GetPromptResult{
		Description: fmt.Sprintf("Analyze %s", ds.Name),
		Messages: []mcplib.PromptMessage{
			{
				Role:    mcplib.RoleUser,
				Content: mcplib.TextContent{Type: "text", Text: text},
			},
		},
	}, nil
}

// findSource matches key against source ids, then names case-insensitively.
func (s *Server) findSource(key string) (model.DataSource, bool) {
	for _, ds := range s.app.DataSources {
		if ds.ID == key {
			return ds, true
		}
	}
	for _, ds := range s.app.DataSources {
		if strings.EqualFold(ds.Name, key) {
			return ds, true
		}
	}
	return model.DataSource{}, false
}
