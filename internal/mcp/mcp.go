// Package mcp serves a launched app over the Model Context Protocol.
//
// Each app gets its own server: the app's runtime tools are registered as MCP
// tools, its config and system prompt are exposed as resources, and the
// agent-setup and analyze-data prompts guide a connecting agent.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/tools"
)

// recentCalls is how many tool calls app://activity reports.
const recentCalls = 50

// Server wraps an mcp-go server bound to one launched app.
type Server struct {
	mcpServer *mcpserver.MCPServer
	app       model.LaunchedApp
	tools     *tools.Set
	calls     *callLog
	logger    *slog.Logger
}

// New creates an MCP server for app exposing every tool in set.
func New(app model.LaunchedApp, set *tools.Set, version string, logger *slog.Logger) *Server {
	s := &Server{
		app:    app,
		tools:  set,
		calls:  newCallLog(recentCalls),
		logger: logger.With("app_id", app.ID),
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"studio-"+app.ID,
		version,
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithInstructions(app.SystemPrompt),
	)

	s.registerResources()
	s.registerTools()
	s.registerPrompts()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// App returns the app this server is bound to.
func (s *Server) App() model.LaunchedApp {
	return s.app
}

// ServeStdio serves the MCP protocol over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	for _, t := range s.tools.Tools() {
		s.mcpServer.AddTool(t.Definition, s.toolHandler(t.Name()))
	}
}

// toolHandler runs name through the tool set. Failures become IsError
// results so the calling agent sees the message.
func (s *Server) toolHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		start := time.Now()
		out, err := s.tools.Invoke(ctx, name, request.GetArguments())
		s.calls.Record(name, start, time.Since(start), err)
		if err != nil {
			if !errors.Is(err, tools.ErrInvalidArguments) && !errors.Is(err, tools.ErrUnknownTool) {
				s.logger.Warn("mcp: tool failed", "tool", name, "error", err)
			}
			return errorResult(err.Error()), nil
		}
		return jsonResult(compactResult(out))
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %v", err)), nil
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
