package mcp

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/tools"
)

type entry struct {
	server  *Server
	handler http.Handler
}

// Registry keeps per-app MCP servers and their streamable HTTP handlers.
// Sessions live inside the handler, so a client keeps its session for as
// long as the app stays cached.
type Registry struct {
	mu      sync.Mutex
	entries *lru.Cache[string, entry]
	version string
	logger  *slog.Logger
}

// NewRegistry returns a registry holding at most size servers.
func NewRegistry(size int, version string, logger *slog.Logger) (*Registry, error) {
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("mcp: create registry: %w", err)
	}
	return &Registry{entries: c, version: version, logger: logger}, nil
}

// Server returns the cached server for app, creating it with set on a miss.
func (r *Registry) Server(app model.LaunchedApp, set *tools.Set) *Server {
	return r.get(app, set).server
}

// Handler returns the streamable HTTP handler for app.
func (r *Registry) Handler(app model.LaunchedApp, set *tools.Set) http.Handler {
	return r.get(app, set).handler
}

// Len returns the number of cached servers.
func (r *Registry) Len() int {
	return r.entries.Len()
}

func (r *Registry) get(app model.LaunchedApp, set *tools.Set) entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries.Get(app.ID); ok {
		return e
	}
	s := New(app, set, r.version, r.logger)
	e := entry{server: s, handler: mcpserver.NewStreamableHTTPServer(s.MCPServer())}
	r.entries.Add(app.ID, e)
	return e
}
