package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/studio"
	"github.com/ashita-ai/studio/internal/tools"
)

// bootstrapResponse is the response for POST /v1/sessions/{id}/bootstrap and
// the quick-start route.
type bootstrapResponse struct {
	Template model.Template `json:"template"`
	Session  studio.State   `json:"session"`
}

// toggleResponse reports the new state of a toggled component or server.
type toggleResponse struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

// queryResponse is the response for the data source query route.
type queryResponse struct {
	Rows  []model.Row `json:"rows"`
	Total int         `json:"total"`
}

// session loads the {id} session, writing a 404 when it does not exist.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*studio.Session, bool) {
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return nil, false
	}
	return sess, true
}

// HandleCreateSession handles POST /v1/sessions.
func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()
	writeJSON(w, r, http.StatusCreated, sess.Snapshot())
}

// HandleGetSession handles GET /v1/sessions/{id}.
func (h *Handlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sess.Snapshot())
}

// HandleDeleteSession handles DELETE /v1/sessions/{id}. The session is reset
// before it is dropped so any in-flight holder sees an empty state.
func (h *Handlers) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	if err := h.sessions.Delete(sess.ID()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBootstrap handles POST /v1/sessions/{id}/bootstrap.
func (h *Handlers) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req model.MatchRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	t, err := sess.Bootstrap(r.Context(), req.Input)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bootstrapResponse{Template: t, Session: sess.Snapshot()})
}

// HandleQuickStart handles POST /v1/sessions/{id}/template.
func (h *Handlers) HandleQuickStart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req model.QuickStartRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if req.TemplateID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "template_id is required")
		return
	}

	t, err := sess.QuickStart(req.TemplateID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bootstrapResponse{Template: t, Session: sess.Snapshot()})
}

// HandleContinue handles POST /v1/sessions/{id}/continue.
func (h *Handlers) HandleContinue(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.ContinueToBuilder(); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.Snapshot())
}

// HandleSetName handles PUT /v1/sessions/{id}/name.
func (h *Handlers) HandleSetName(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req model.NameRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}
	sess.SetAppName(req.Name)
	writeJSON(w, r, http.StatusOK, sess.Snapshot())
}

// HandleSetPrompt handles PUT /v1/sessions/{id}/prompt.
func (h *Handlers) HandleSetPrompt(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req model.PromptRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}
	sess.SetSystemPrompt(req.SystemPrompt)
	writeJSON(w, r, http.StatusOK, sess.Snapshot())
}

// HandleToggleComponent handles POST /v1/sessions/{id}/components/{cid}/toggle.
func (h *Handlers) HandleToggleComponent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id := r.PathValue("cid")
	enabled, err := sess.ToggleComponent(id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toggleResponse{ID: id, Enabled: enabled})
}

// HandleToggleServer handles POST /v1/sessions/{id}/mcp-servers/{sid}/toggle.
func (h *Handlers) HandleToggleServer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id := r.PathValue("sid")
	enabled, err := sess.ToggleServer(id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toggleResponse{ID: id, Enabled: enabled})
}

// HandleUpload handles POST /v1/sessions/{id}/datasources.
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req model.UploadRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	ds, err := sess.AddUpload(req.Name, req.Format, req.Content)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.logger.Info("data source uploaded",
		"session_id", sess.ID(),
		"source_id", ds.ID,
		"format", req.Format,
		"records", len(ds.Data),
	)
	writeJSON(w, r, http.StatusCreated, ds)
}

// HandleAddSample handles POST /v1/sessions/{id}/datasources/sample/{key}.
func (h *Handlers) HandleAddSample(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ds, err := sess.AddSample(r.PathValue("key"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ds)
}

// HandleRemoveDataSource handles DELETE /v1/sessions/{id}/datasources/{dsid}.
func (h *Handlers) HandleRemoveDataSource(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.RemoveDataSource(r.PathValue("dsid")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetActiveDataSource handles PUT /v1/sessions/{id}/datasources/{dsid}/active.
func (h *Handlers) HandleSetActiveDataSource(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.SetActiveDataSource(r.PathValue("dsid")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.Snapshot())
}

// HandleQueryData handles GET /v1/sessions/{id}/datasources/{dsid}/query.
// Each query parameter naming a field becomes a filter, coerced to the
// field's type; parameters that name no field are ignored.
func (h *Handlers) HandleQueryData(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ds, err := sess.DataSource(r.PathValue("dsid"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	filters, err := queryFilters(ds, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}
	rows, err := sess.QueryData(ds.ID, filters)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, queryResponse{Rows: rows, Total: len(rows)})
}

func queryFilters(ds model.DataSource, r *http.Request) (map[string]any, error) {
	q := r.URL.Query()
	filters := make(map[string]any)
	for _, f := range ds.Fields {
		raw := q.Get(f.Name)
		if raw == "" {
			continue
		}
		switch f.Type {
		case model.FieldNumber:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("filter %s must be a number", f.Name)
			}
			filters[f.Name] = v
		case model.FieldBoolean:
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("filter %s must be a boolean", f.Name)
			}
			filters[f.Name] = v
		default:
			filters[f.Name] = raw
		}
	}
	return filters, nil
}

// HandleDataSourceTools handles GET /v1/sessions/{id}/datasources/{dsid}/tools.
func (h *Handlers) HandleDataSourceTools(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ds, err := sess.DataSource(r.PathValue("dsid"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tools.NewSet(tools.Generate(ds)...).Infos())
}

// HandleSynthesize handles POST /v1/sessions/{id}/synthesize.
func (h *Handlers) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	prompt := sess.SynthesizeFromDataSources()
	writeJSON(w, r, http.StatusOK, model.PromptRequest{SystemPrompt: prompt})
}

// HandleConfig handles GET /v1/sessions/{id}/config.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	cfg, err := sess.Config()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cfg)
}

// HandleExport handles GET /v1/sessions/{id}/export.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	cfg, err := sess.Export()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cfg)
}

// HandlePreview handles GET /v1/sessions/{id}/preview.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sess.Preview())
}

// HandleLaunch handles POST /v1/sessions/{id}/launch.
func (h *Handlers) HandleLaunch(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	app, err := sess.Launch(r.Context(), h.store)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.logger.Info("app launched",
		"app_id", app.ID,
		"template", app.TemplateID,
		"data_sources", len(app.DataSources),
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeJSON(w, r, http.StatusCreated, app)
}
