package studio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/model"
)

// Bootstrap runs the "describe your app" flow: it records the prompt, waits
// the simulated generation delay, selects the best matching template, and
// records the assistant's summary. Only one generation runs per session at a
// time. If ctx ends or the session is reset during the wait nothing is
// selected.
func (s *Session) Bootstrap(ctx context.Context, input string) (model.Template, error) {
	input = strings.TrimSpace(input)

	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return model.Template{}, ErrGenerating
	}
	s.appendLocked(model.RoleUser, input)
	s.generating = true
	epoch := s.epoch
	delay := s.delay
	s.mu.Unlock()

	err := wait(ctx, delay)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// The reset already cleared generating; a newer bootstrap may own it now.
		return model.Template{}, ErrSessionReset
	}
	if err != nil {
		s.generating = false
		s.touchLocked()
		return model.Template{}, fmt.Errorf("studio: bootstrap: %w", err)
	}

	t := catalog.Match(input)
	s.selectLocked(t)
	s.appendLocked(model.RoleAssistant, bootstrapReply(t))
	s.generating = false
	return t, nil
}

// QuickStart selects a catalog template by id without the generation delay.
func (s *Session) QuickStart(templateID string) (model.Template, error) {
	t, ok := catalog.Get(templateID)
	if !ok {
		return model.Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return model.Template{}, ErrGenerating
	}
	s.appendLocked(model.RoleUser, fmt.Sprintf("Create a %s app", strings.ToLower(t.Name)))
	s.selectLocked(t)
	s.appendLocked(model.RoleAssistant, fmt.Sprintf(
		"I've configured a **%s** app for you. Click \"Continue to Builder\" to customize it.", t.Name))
	return t, nil
}

func bootstrapReply(t model.Template) string {
	components := countEnabled(t.Components, func(c model.Component) bool { return c.Enabled })
	servers := countEnabled(t.MCPServers, func(s model.MCPServer) bool { return s.Enabled })
	return fmt.Sprintf(`I'll create a **%s** app for you.

This includes:
- **%d components** for the UI
- **%d MCP servers** for AI capabilities
- A customized system prompt

Click "Continue to Builder" to customize your app.`, t.Name, components, servers)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
