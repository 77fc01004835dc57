package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashita-ai/studio/internal/auth"
	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/datasource"
	"github.com/ashita-ai/studio/internal/mcp"
	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/storage"
	"github.com/ashita-ai/studio/internal/studio"
	"github.com/ashita-ai/studio/internal/tools"
)

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	sessions            *studio.Sessions
	store               storage.Store
	toolsets            *studio.Toolsets
	mcp                 *mcp.Registry
	jwtMgr              *auth.JWTManager
	logger              *slog.Logger
	version             string
	maxRequestBodyBytes int64
	openapiSpec         []byte
	startedAt           time.Time
}

// HandlersDeps holds all dependencies for constructing Handlers.
type HandlersDeps struct {
	Sessions            *studio.Sessions
	Store               storage.Store
	Toolsets            *studio.Toolsets
	MCP                 *mcp.Registry
	JWTMgr              *auth.JWTManager
	Logger              *slog.Logger
	Version             string
	MaxRequestBodyBytes int64
	OpenAPISpec         []byte
}

// NewHandlers creates a new Handlers with all dependencies.
func NewHandlers(d HandlersDeps) *Handlers {
	return &Handlers{
		sessions:            d.Sessions,
		store:               d.Store,
		toolsets:            d.Toolsets,
		mcp:                 d.MCP,
		jwtMgr:              d.JWTMgr,
		logger:              d.Logger,
		version:             d.Version,
		maxRequestBodyBytes: d.MaxRequestBodyBytes,
		openapiSpec:         d.OpenAPISpec,
		startedAt:           time.Now(),
	}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	storageStatus := "connected"
	if err := h.store.Ping(r.Context()); err != nil {
		status = "unhealthy"
		storageStatus = "disconnected"
		h.logger.Warn("health: storage ping failed", "error", err)
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, model.HealthResponse{
		Status:   status,
		Version:  h.version,
		Storage:  storageStatus,
		Sessions: h.sessions.Len(),
		Uptime:   int64(time.Since(h.startedAt).Seconds()),
	})
}

// HandleOpenAPISpec handles GET /openapi.yaml.
func (h *Handlers) HandleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if len(h.openapiSpec) == 0 {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "openapi spec not available")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(h.openapiSpec)
}

// HandleListTemplates handles GET /v1/templates.
func (h *Handlers) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, catalog.Templates())
}

// HandleGetTemplate handles GET /v1/templates/{id}.
func (h *Handlers) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := catalog.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "template not found")
		return
	}
	writeJSON(w, r, http.StatusOK, model.MatchResponse{Template: t, Config: catalog.GenerateConfig(t)})
}

// HandleMatch handles POST /v1/match. Matching never fails: an input with no
// keyword hits gets the default template.
func (h *Handlers) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var req model.MatchRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}
	t := catalog.Match(req.Input)
	writeJSON(w, r, http.StatusOK, model.MatchResponse{Template: t, Config: catalog.GenerateConfig(t)})
}

// HandleListComponents handles GET /v1/components.
func (h *Handlers) HandleListComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, catalog.Components())
}

// HandleListServers handles GET /v1/mcp-servers.
func (h *Handlers) HandleListServers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, catalog.Servers())
}

// sampleInfo describes a built-in sample set without its rows.
type sampleInfo struct {
	Key     string            `json:"key"`
	Name    string            `json:"name"`
	Records int               `json:"records"`
	Fields  []model.DataField `json:"fields"`
}

// HandleListSamples handles GET /v1/samples.
func (h *Handlers) HandleListSamples(w http.ResponseWriter, r *http.Request) {
	keys := datasource.SampleKeys()
	out := make([]sampleInfo, 0, len(keys))
	for _, k := range keys {
		ds, _ := datasource.Sample(k)
		out = append(out, sampleInfo{Key: k, Name: ds.Name, Records: len(ds.Data), Fields: ds.Fields})
	}
	writeJSON(w, r, http.StatusOK, out)
}

// writeDomainError maps package sentinel errors onto API responses. Anything
// unrecognized is logged and reported as an internal error.
func (h *Handlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is listening for the response.
		return
	case errors.Is(err, studio.ErrSessionNotFound),
		errors.Is(err, studio.ErrUnknownTemplate),
		errors.Is(err, studio.ErrUnknownComponent),
		errors.Is(err, studio.ErrUnknownServer),
		errors.Is(err, studio.ErrUnknownDataSource),
		errors.Is(err, studio.ErrUnknownSampleSet),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, tools.ErrUnknownTool):
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, err.Error())
	case errors.Is(err, studio.ErrNoTemplate),
		errors.Is(err, datasource.ErrInvalidJSON),
		errors.Is(err, datasource.ErrUnsupportedFormat),
		errors.Is(err, tools.ErrInvalidArguments):
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
	case errors.Is(err, studio.ErrGenerating),
		errors.Is(err, studio.ErrSessionReset):
		writeError(w, r, http.StatusConflict, model.ErrCodeConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorized, "invalid or expired share token")
	default:
		h.writeInternalError(w, r, "request failed", err)
	}
}

// writeInternalError logs err and writes a generic 500 response.
func (h *Handlers) writeInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		"error", err,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, msg)
}
