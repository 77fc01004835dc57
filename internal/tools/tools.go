// Package tools holds the callable tool values exposed to a launched app:
// each tool pairs an MCP definition (name, description, argument schema) with
// a Go handler. Tools are generated from data sources or supplied by the mock
// services, collected into a Set, and served over HTTP and MCP.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/telemetry"
)

var (
	// ErrUnknownTool is returned when a set has no tool with the requested name.
	ErrUnknownTool = errors.New("tools: unknown tool")

	// ErrInvalidArguments is returned by handlers for missing or mistyped arguments.
	ErrInvalidArguments = errors.New("tools: invalid arguments")
)

// Handler runs a tool. Arguments arrive as decoded JSON.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is a named, described, schema-carrying operation.
type Tool struct {
	Definition mcplib.Tool
	Handler    Handler
}

// Name returns the tool's name.
func (t Tool) Name() string { return t.Definition.Name }

// Invoke runs the tool. A nil args map is treated as empty.
func (t Tool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	return t.Handler(ctx, args)
}

// Args wraps decoded arguments in a call request so handlers can use the
// typed getters (GetString, GetFloat, GetBool).
func Args(args map[string]any) mcplib.CallToolRequest {
	return mcplib.CallToolRequest{Params: mcplib.CallToolParams{Arguments: args}}
}

// Info describes the tool for API listings.
func (t Tool) Info() model.ToolInfo {
	info := model.ToolInfo{Name: t.Definition.Name, Description: t.Definition.Description}
	raw, err := json.Marshal(t.Definition.InputSchema)
	if err == nil {
		_ = json.Unmarshal(raw, &info.InputSchema)
	}
	if info.InputSchema == nil {
		info.InputSchema = map[string]any{"type": "object"}
	}
	return info
}

// Set is an ordered name -> Tool mapping. Adding a tool whose name is already
// present replaces it in place. A Set is safe for concurrent use.
type Set struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Tool
}

// NewSet returns a set holding the given tools in order.
func NewSet(tools ...Tool) *Set {
	s := &Set{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		s.Add(t)
	}
	return s
}

// Add inserts or replaces a tool.
func (s *Set) Add(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[t.Name()]; !ok {
		s.order = append(s.order, t.Name())
	}
	s.byName[t.Name()] = t
}

// Get looks a tool up by name.
func (s *Set) Get(name string) (Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byName[name]
	return t, ok
}

// Len returns the number of tools.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Names returns tool names in insertion order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Tools returns the tools in insertion order.
func (s *Set) Tools() []Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tool, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Infos describes every tool in insertion order.
func (s *Set) Infos() []model.ToolInfo {
	tools := s.Tools()
	out := make([]model.ToolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Info())
	}
	return out
}

// Invoke runs the named tool inside a span and counts the call.
func (s *Set) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	ctx, span := telemetry.Tracer("studio/tools").Start(ctx, "tool "+name)
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", name))

	result, err := t.Invoke(ctx, args)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	invocationCounter().Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("status", status),
	))
	return result, err
}

var (
	counterOnce sync.Once
	counter     metric.Int64Counter
)

func invocationCounter() metric.Int64Counter {
	counterOnce.Do(func() {
		c, err := telemetry.Meter("studio/tools").Int64Counter("studio.tool.invocations",
			metric.WithDescription("Tool invocations by name and outcome"),
		)
		if err != nil {
			c = noop.Int64Counter{}
		}
		counter = c
	})
	return counter
}
