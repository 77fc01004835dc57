package studio

import (
	"github.com/ashita-ai/studio/internal/mockdata"
	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/tools"
)

// Toolsets builds the runtime tool set of launched apps: the template's mock
// service tools followed by the tools generated from the app's data sources.
// Sets are cached by app id; a launched app never changes after it is saved.
type Toolsets struct {
	services *mockdata.Services
	cache    *tools.Cache
}

// NewToolsets returns a builder caching at most size sets.
func NewToolsets(services *mockdata.Services, size int) (*Toolsets, error) {
	c, err := tools.NewCache(size)
	if err != nil {
		return nil, err
	}
	return &Toolsets{services: services, cache: c}, nil
}

// For returns app's tool set, building it on first use.
func (t *Toolsets) For(app model.LaunchedApp) (*tools.Set, error) {
	return t.cache.GetOrBuild(app.ID, func() (*tools.Set, error) {
		set := tools.NewSet(t.services.ToolsForTemplate(app.TemplateID)...)
		for _, tool := range tools.GenerateAll(app.DataSources) {
			set.Add(tool)
		}
		return set, nil
	})
}

// Cached returns the number of cached sets.
func (t *Toolsets) Cached() int { return t.cache.Len() }
