package studio

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/ashita-ai/studio/internal/model"
)

// AppSaver persists launched apps.
type AppSaver interface {
	SaveApp(ctx context.Context, app model.LaunchedApp) error
}

// Launch snapshots the session into a LaunchedApp and saves it. The session
// is marked launched only after the save succeeds.
func (s *Session) Launch(ctx context.Context, store AppSaver) (model.LaunchedApp, error) {
	s.mu.Lock()
	if s.template == nil {
		s.mu.Unlock()
		return model.LaunchedApp{}, ErrNoTemplate
	}
	app := model.LaunchedApp{
		ID:                uuid.New().String(),
		Name:              s.appName,
		TemplateID:        s.template.ID,
		SystemPrompt:      s.systemPrompt,
		EnabledComponents: model.EnabledComponentIDs(s.components),
		EnabledServers:    model.EnabledServerIDs(s.servers),
		DataSources:       slices.Clone(s.dataSources),
		LaunchedAt:        s.now().UTC(),
	}
	s.mu.Unlock()

	if err := store.SaveApp(ctx, app); err != nil {
		return model.LaunchedApp{}, fmt.Errorf("studio: launch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.launched = true
	s.launchedAppID = app.ID
	s.touchLocked()
	return app, nil
}
