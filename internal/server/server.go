package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashita-ai/studio/internal/auth"
	"github.com/ashita-ai/studio/internal/mcp"
	"github.com/ashita-ai/studio/internal/ratelimit"
	"github.com/ashita-ai/studio/internal/storage"
	"github.com/ashita-ai/studio/internal/studio"
)

// Server is the studio HTTP server.
type Server struct {
	httpServer *http.Server
	handlers   *Handlers
	logger     *slog.Logger
}

// ServerConfig holds all dependencies and settings for creating a Server.
type ServerConfig struct {
	Sessions *studio.Sessions
	Store    storage.Store
	Toolsets *studio.Toolsets
	MCP      *mcp.Registry
	JWTMgr   *auth.JWTManager
	Limiter  ratelimit.Limiter
	Logger   *slog.Logger

	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64

	// OpenAPISpec is served at GET /openapi.yaml when non-empty.
	OpenAPISpec []byte
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	h := NewHandlers(HandlersDeps{
		Sessions:            cfg.Sessions,
		Store:               cfg.Store,
		Toolsets:            cfg.Toolsets,
		MCP:                 cfg.MCP,
		JWTMgr:              cfg.JWTMgr,
		Logger:              cfg.Logger,
		Version:             cfg.Version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		OpenAPISpec:         cfg.OpenAPISpec,
	})

	mux := http.NewServeMux()

	// Meta.
	mux.Handle("GET /health", http.HandlerFunc(h.HandleHealth))
	mux.Handle("GET /openapi.yaml", http.HandlerFunc(h.HandleOpenAPISpec))

	// Catalog.
	mux.Handle("GET /v1/templates", http.HandlerFunc(h.HandleListTemplates))
	mux.Handle("GET /v1/templates/{id}", http.HandlerFunc(h.HandleGetTemplate))
	mux.Handle("POST /v1/match", http.HandlerFunc(h.HandleMatch))
	mux.Handle("GET /v1/components", http.HandlerFunc(h.HandleListComponents))
	mux.Handle("GET /v1/mcp-servers", http.HandlerFunc(h.HandleListServers))
	mux.Handle("GET /v1/samples", http.HandlerFunc(h.HandleListSamples))

	// Builder sessions.
	mux.Handle("POST /v1/sessions", http.HandlerFunc(h.HandleCreateSession))
	mux.Handle("GET /v1/sessions/{id}", http.HandlerFunc(h.HandleGetSession))
	mux.Handle("DELETE /v1/sessions/{id}", http.HandlerFunc(h.HandleDeleteSession))
	mux.Handle("POST /v1/sessions/{id}/bootstrap", http.HandlerFunc(h.HandleBootstrap))
	mux.Handle("POST /v1/sessions/{id}/template", http.HandlerFunc(h.HandleQuickStart))
	mux.Handle("POST /v1/sessions/{id}/continue", http.HandlerFunc(h.HandleContinue))
	mux.Handle("PUT /v1/sessions/{id}/name", http.HandlerFunc(h.HandleSetName))
	mux.Handle("PUT /v1/sessions/{id}/prompt", http.HandlerFunc(h.HandleSetPrompt))
	mux.Handle("POST /v1/sessions/{id}/components/{cid}/toggle", http.HandlerFunc(h.HandleToggleComponent))
	mux.Handle("POST /v1/sessions/{id}/mcp-servers/{sid}/toggle", http.HandlerFunc(h.HandleToggleServer))
	mux.Handle("POST /v1/sessions/{id}/datasources", http.HandlerFunc(h.HandleUpload))
	mux.Handle("POST /v1/sessions/{id}/datasources/sample/{key}", http.HandlerFunc(h.HandleAddSample))
	mux.Handle("DELETE /v1/sessions/{id}/datasources/{dsid}", http.HandlerFunc(h.HandleRemoveDataSource))
	mux.Handle("PUT /v1/sessions/{id}/datasources/{dsid}/active", http.HandlerFunc(h.HandleSetActiveDataSource))
	mux.Handle("GET /v1/sessions/{id}/datasources/{dsid}/query", http.HandlerFunc(h.HandleQueryData))
	mux.Handle("GET /v1/sessions/{id}/datasources/{dsid}/tools", http.HandlerFunc(h.HandleDataSourceTools))
	mux.Handle("POST /v1/sessions/{id}/synthesize", http.HandlerFunc(h.HandleSynthesize))
	mux.Handle("GET /v1/sessions/{id}/config", http.HandlerFunc(h.HandleConfig))
	mux.Handle("GET /v1/sessions/{id}/export", http.HandlerFunc(h.HandleExport))
	mux.Handle("GET /v1/sessions/{id}/preview", http.HandlerFunc(h.HandlePreview))
	mux.Handle("POST /v1/sessions/{id}/launch", http.HandlerFunc(h.HandleLaunch))

	// Launched apps.
	mux.Handle("GET /v1/apps/latest", http.HandlerFunc(h.HandleLatestApp))
	mux.Handle("GET /v1/apps/{id}", http.HandlerFunc(h.HandleGetApp))
	mux.Handle("GET /v1/apps/{id}/tools", http.HandlerFunc(h.HandleListTools))
	mux.Handle("POST /v1/apps/{id}/tools/{name}", http.HandlerFunc(h.HandleInvokeTool))
	mux.Handle("POST /v1/apps/{id}/chat", http.HandlerFunc(h.HandleChat))
	mux.Handle("GET /v1/apps/{id}/chat/ws", http.HandlerFunc(h.HandleChatSocket))
	mux.Handle("GET /v1/apps/{id}/suggestions", http.HandlerFunc(h.HandleSuggestions))
	mux.Handle("POST /v1/apps/{id}/share", http.HandlerFunc(h.HandleShare))
	mux.Handle("GET /v1/shared/{token}", http.HandlerFunc(h.HandleResolveShare))

	// MCP streamable HTTP, one server per launched app.
	mux.Handle("/v1/apps/{id}/mcp", http.HandlerFunc(h.HandleMCP))

	// Middleware chain (outermost executes first):
	// request ID -> security headers -> tracing -> logging -> rate limit -> recovery -> handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = ratelimit.Middleware(cfg.Limiter, rateLimitKey, requestIDFromRequest, cfg.Logger)(handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			// Streaming responses (MCP SSE, websocket chat) set their own deadlines.
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  120 * time.Second,
		},
		handlers: h,
		logger:   cfg.Logger,
	}
}

// rateLimitKey limits by client IP. Health checks and the API description
// are never limited.
func requestIDFromRequest(r *http.Request) string {
	return RequestIDFromContext(r.Context())
}

func rateLimitKey(r *http.Request) string {
	switch r.URL.Path {
	case "/health", "/openapi.yaml":
		return ""
	}
	return ratelimit.IPKeyFunc(r)
}

// Handler returns the root HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
