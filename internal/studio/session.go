// Package studio holds the builder state behind the HTTP API: one Session per
// browser tab, guarded by its own mutex and changed only through its methods.
package studio

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/datasource"
	"github.com/ashita-ai/studio/internal/mockdata"
	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/tools"
)

// DefaultAppName is the name of a session before a template is selected.
const DefaultAppName = "My AI App"

var (
	ErrSessionNotFound   = errors.New("studio: session not found")
	ErrUnknownTemplate   = errors.New("studio: unknown template")
	ErrUnknownComponent  = errors.New("studio: unknown component")
	ErrUnknownServer     = errors.New("studio: unknown mcp server")
	ErrUnknownDataSource = errors.New("studio: unknown data source")
	ErrUnknownSampleSet  = errors.New("studio: unknown sample data set")
	ErrNoTemplate        = errors.New("studio: no template selected")
	ErrGenerating        = errors.New("studio: generation already in progress")
	ErrSessionReset      = errors.New("studio: session was reset during generation")
)

// State is a point-in-time copy of a Session, safe to serialize.
type State struct {
	ID                 string             `json:"id"`
	AppName            string             `json:"app_name"`
	Template           *model.Template    `json:"selected_template"`
	SystemPrompt       string             `json:"system_prompt"`
	Components         []model.Component  `json:"components"`
	MCPServers         []model.MCPServer  `json:"mcp_servers"`
	DataSources        []model.DataSource `json:"data_sources"`
	ActiveDataSourceID string             `json:"active_data_source_id,omitempty"`
	View               model.View         `json:"view"`
	Messages           []model.Message    `json:"messages"`
	Generating         bool               `json:"is_generating"`
	Launched           bool               `json:"is_launched"`
	LaunchedAppID      string             `json:"launched_app_id,omitempty"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Session is one in-progress app configuration.
type Session struct {
	mu sync.Mutex

	id    string
	delay time.Duration
	now   func() time.Time

	appName            string
	template           *model.Template
	systemPrompt       string
	components         []model.Component
	servers            []model.MCPServer
	dataSources        []model.DataSource
	activeDataSourceID string
	view               model.View
	messages           []model.Message
	generating         bool
	epoch              uint64 // bumped by every reset
	launched           bool
	launchedAppID      string
	updatedAt          time.Time
}

// NewSession creates an empty session. delay is the simulated generation
// time used by Bootstrap.
func NewSession(delay time.Duration) *Session {
	s := &Session{id: uuid.New().String(), delay: delay, now: time.Now}
	s.resetLocked()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func (s *Session) resetLocked() {
	s.appName = DefaultAppName
	s.template = nil
	s.systemPrompt = ""
	s.components = []model.Component{}
	s.servers = []model.MCPServer{}
	s.dataSources = []model.DataSource{}
	s.activeDataSourceID = ""
	s.view = model.ViewBootstrap
	s.messages = []model.Message{}
	s.generating = false
	s.epoch++
	s.launched = false
	s.launchedAppID = ""
	s.touchLocked()
}

func (s *Session) touchLocked() { s.updatedAt = s.now().UTC() }

// Reset returns the session to its initial state. Data sources are cleared too.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// SelectTemplate applies t: its prompt, a fresh copy of its toggles, and its
// name as the app name.
func (s *Session) SelectTemplate(t model.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(t)
}

func (s *Session) selectLocked(t model.Template) {
	clone := catalog.Clone(t)
	s.template = &clone
	toggles := catalog.Clone(t)
	s.systemPrompt = t.SystemPrompt
	s.components = toggles.Components
	s.servers = toggles.MCPServers
	s.appName = t.Name
	s.touchLocked()
}

// ProcessInput matches input against the catalog and selects the result.
func (s *Session) ProcessInput(input string) model.Template {
	t := catalog.Match(input)
	s.SelectTemplate(t)
	return t
}

// SetAppName renames the app.
func (s *Session) SetAppName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appName = name
	s.touchLocked()
}

// SetSystemPrompt replaces the system prompt.
func (s *Session) SetSystemPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = prompt
	s.touchLocked()
}

// ToggleComponent flips the enabled flag of component id and reports the new value.
func (s *Session) ToggleComponent(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.components {
		if s.components[i].ID == id {
			s.components[i].Enabled = !s.components[i].Enabled
			s.touchLocked()
			return s.components[i].Enabled, nil
		}
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownComponent, id)
}

// ToggleServer flips the enabled flag of MCP server id and reports the new value.
func (s *Session) ToggleServer(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.servers {
		if s.servers[i].ID == id {
			s.servers[i].Enabled = !s.servers[i].Enabled
			s.touchLocked()
			return s.servers[i].Enabled, nil
		}
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownServer, id)
}

// AddDataSource appends ds and makes it the active source. A name whose
// generated tools would clash with another source's or a mock service tool
// gets a numeric suffix ("Sales Data 2"). The stored source is returned.
func (s *Session) AddDataSource(ds model.DataSource) model.DataSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds.Name = s.uniqueSourceNameLocked(ds.Name)
	s.dataSources = append(s.dataSources, ds)
	s.activeDataSourceID = ds.ID
	s.touchLocked()
	return ds
}

// reservedToolNames holds the mock service tool names a launched app carries.
var reservedToolNames = sync.OnceValue(func() map[string]bool {
	names := make(map[string]bool)
	for _, t := range mockdata.New(0).AllTools() {
		names[t.Name()] = true
	}
	return names
})

func (s *Session) uniqueSourceNameLocked(name string) string {
	taken := make(map[string]bool, len(s.dataSources)*4)
	for _, ds := range s.dataSources {
		for _, n := range tools.Names(ds.Name) {
			taken[n] = true
		}
	}
	reserved := reservedToolNames()
	for i := 1; ; i++ {
		candidate := name
		if i > 1 {
			candidate = fmt.Sprintf("%s %d", name, i)
		}
		clash := false
		for _, n := range tools.Names(candidate) {
			if taken[n] || reserved[n] {
				clash = true
				break
			}
		}
		if !clash {
			return candidate
		}
	}
}

// AddUpload parses content and adds the result. Nothing is added on error.
func (s *Session) AddUpload(name, format, content string) (model.DataSource, error) {
	ds, err := datasource.FromUpload(name, format, content)
	if err != nil {
		return model.DataSource{}, err
	}
	return s.AddDataSource(ds), nil
}

// AddSample adds a copy of a built-in sample set.
func (s *Session) AddSample(key string) (model.DataSource, error) {
	ds, ok := datasource.Sample(key)
	if !ok {
		return model.DataSource{}, fmt.Errorf("%w: %s", ErrUnknownSampleSet, key)
	}
	return s.AddDataSource(ds), nil
}

// RemoveDataSource drops source id, clearing the active source if it was id.
func (s *Session) RemoveDataSource(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDataSource, id)
	}
	s.dataSources = slices.Delete(s.dataSources, i, i+1)
	if s.activeDataSourceID == id {
		s.activeDataSourceID = ""
	}
	s.touchLocked()
	return nil
}

// SetActiveDataSource selects the source the preview renders. An empty id
// clears the selection.
func (s *Session) SetActiveDataSource(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDataSource, id)
	}
	s.activeDataSourceID = id
	s.touchLocked()
	return nil
}

// DataSource returns source id.
func (s *Session) DataSource(id string) (model.DataSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.DataSource{}, fmt.Errorf("%w: %s", ErrUnknownDataSource, id)
	}
	return s.dataSources[i], nil
}

// QueryData returns the rows of source id that pass filters.
func (s *Session) QueryData(id string, filters map[string]any) ([]model.Row, error) {
	ds, err := s.DataSource(id)
	if err != nil {
		return nil, err
	}
	return datasource.Filter(ds.Data, filters), nil
}

// SynthesizeFromDataSources rebuilds the system prompt from the app name and
// the attached sources, stores it, and returns it.
func (s *Session) SynthesizeFromDataSources() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = tools.SystemPrompt(s.appName, s.dataSources)
	s.touchLocked()
	return s.systemPrompt
}

// ContinueToBuilder moves from the bootstrap chat to the builder view.
func (s *Session) ContinueToBuilder() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return ErrNoTemplate
	}
	s.view = model.ViewBuilder
	s.touchLocked()
	return nil
}

// Config returns the display config of the selected template.
func (s *Session) Config() (model.AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return model.AppConfig{}, ErrNoTemplate
	}
	t := catalog.Clone(*s.template)
	t.Name = s.appName
	t.SystemPrompt = s.systemPrompt
	t.Components = s.components
	t.MCPServers = s.servers
	return catalog.GenerateConfig(t), nil
}

// Export returns the code-preview config of the current toggles.
func (s *Session) Export() (model.ExportConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return model.ExportConfig{}, ErrNoTemplate
	}
	return catalog.ExportConfig(s.appName, s.template.ID, s.systemPrompt, s.components, s.servers), nil
}

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:                 s.id,
		AppName:            s.appName,
		SystemPrompt:       s.systemPrompt,
		Components:         slices.Clone(s.components),
		MCPServers:         make([]model.MCPServer, len(s.servers)),
		DataSources:        slices.Clone(s.dataSources),
		ActiveDataSourceID: s.activeDataSourceID,
		View:               s.view,
		Messages:           slices.Clone(s.messages),
		Generating:         s.generating,
		Launched:           s.launched,
		LaunchedAppID:      s.launchedAppID,
		UpdatedAt:          s.updatedAt,
	}
	for i, srv := range s.servers {
		srv.Tools = slices.Clone(srv.Tools)
		st.MCPServers[i] = srv
	}
	if s.template != nil {
		t := catalog.Clone(*s.template)
		st.Template = &t
	}
	return st
}

func (s *Session) indexLocked(id string) int {
	return slices.IndexFunc(s.dataSources, func(ds model.DataSource) bool { return ds.ID == id })
}

func (s *Session) appendLocked(role, content string) {
	s.messages = append(s.messages, model.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
	})
	s.touchLocked()
}

func countEnabled[T any](items []T, enabled func(T) bool) int {
	n := 0
	for _, it := range items {
		if enabled(it) {
			n++
		}
	}
	return n
}
