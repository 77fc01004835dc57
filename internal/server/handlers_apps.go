package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/chat"
	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/tools"
)

// app loads the {id} launched app, writing the error response on failure.
func (h *Handlers) app(w http.ResponseWriter, r *http.Request) (model.LaunchedApp, bool) {
	app, err := h.store.GetApp(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return model.LaunchedApp{}, false
	}
	return app, true
}

// appTools loads the {id} launched app and its runtime toolset.
func (h *Handlers) appTools(w http.ResponseWriter, r *http.Request) (model.LaunchedApp, *tools.Set, bool) {
	app, ok := h.app(w, r)
	if !ok {
		return model.LaunchedApp{}, nil, false
	}
	set, err := h.toolsets.For(app)
	if err != nil {
		h.writeInternalError(w, r, "failed to build toolset", err)
		return model.LaunchedApp{}, nil, false
	}
	return app, set, true
}

// HandleLatestApp handles GET /v1/apps/latest.
func (h *Handlers) HandleLatestApp(w http.ResponseWriter, r *http.Request) {
	app, err := h.store.LatestApp(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, app)
}

// HandleGetApp handles GET /v1/apps/{id}.
func (h *Handlers) HandleGetApp(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, app)
}

// HandleListTools handles GET /v1/apps/{id}/tools.
func (h *Handlers) HandleListTools(w http.ResponseWriter, r *http.Request) {
	_, set, ok := h.appTools(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, set.Infos())
}

// HandleInvokeTool handles POST /v1/apps/{id}/tools/{name}. The body is the
// argument object; an empty body calls the tool with no arguments.
func (h *Handlers) HandleInvokeTool(w http.ResponseWriter, r *http.Request) {
	_, set, ok := h.appTools(w, r)
	if !ok {
		return
	}
	args := map[string]any{}
	if err := decodeJSON(w, r, &args, h.maxRequestBodyBytes); err != nil && !errors.Is(err, io.EOF) {
		handleDecodeError(w, r, err)
		return
	}

	name := r.PathValue("name")
	out, err := set.Invoke(r.Context(), name, args)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, model.ToolCall{Name: name, Arguments: args, Result: out})
}

// HandleChat handles POST /v1/apps/{id}/chat.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	app, set, ok := h.appTools(w, r)
	if !ok {
		return
	}
	var req model.ChatRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "message is required")
		return
	}
	if len(req.Message) > model.MaxPromptLen {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "message is too long")
		return
	}

	resp, err := chat.Reply(r.Context(), app, set, req.Message)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// HandleSuggestions handles GET /v1/apps/{id}/suggestions.
func (h *Handlers) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, catalog.Suggestions(app.TemplateID))
}

// HandleShare handles POST /v1/apps/{id}/share.
func (h *Handlers) HandleShare(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	token, expiresAt, err := h.jwtMgr.IssueShareToken(app)
	if err != nil {
		h.writeInternalError(w, r, "failed to issue share token", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, model.ShareResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Path:      "/v1/shared/" + token,
	})
}

// HandleResolveShare handles GET /v1/shared/{token}.
func (h *Handlers) HandleResolveShare(w http.ResponseWriter, r *http.Request) {
	claims, err := h.jwtMgr.ValidateShareToken(r.PathValue("token"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	app, err := h.store.GetApp(r.Context(), claims.AppID())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, app)
}

// HandleMCP serves the launched app's MCP endpoint over streamable HTTP.
func (h *Handlers) HandleMCP(w http.ResponseWriter, r *http.Request) {
	app, set, ok := h.appTools(w, r)
	if !ok {
		return
	}
	h.mcp.Handler(app, set).ServeHTTP(w, r)
}
