package studio

import (
	"log/slog"
	"time"

	"github.com/ashita-ai/studio/internal/storage"
)

// Option configures an App.
type Option func(*resolvedOptions)

// resolvedOptions holds the overrides applied on top of the environment config.
type resolvedOptions struct {
	port            int
	logger          *slog.Logger
	version         string
	store           storage.Store
	generationDelay *time.Duration
}

// WithPort overrides the TCP port from config (STUDIO_PORT env var).
func WithPort(port int) Option {
	return func(o *resolvedOptions) { o.port = port }
}

// WithLogger sets the structured logger for the App.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithVersion sets the version string reported by /health and MCP.
func WithVersion(version string) Option {
	return func(o *resolvedOptions) { o.version = version }
}

// WithStore replaces the configured storage driver. The App takes ownership
// and closes the store on shutdown.
func WithStore(store storage.Store) Option {
	return func(o *resolvedOptions) { o.store = store }
}

// WithGenerationDelay overrides the simulated bootstrap delay
// (STUDIO_GENERATION_DELAY env var). Zero disables it.
func WithGenerationDelay(d time.Duration) Option {
	return func(o *resolvedOptions) { o.generationDelay = &d }
}
