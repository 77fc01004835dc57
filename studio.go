// Package studio is the public API for embedding the studio server: the
// template-driven AI app builder with its launched-app runtime.
//
//	app, err := studio.New(
//	    studio.WithVersion(version),
//	    studio.WithLogger(logger),
//	)
//	if err != nil { ... }
//	if err := app.Run(ctx); err != nil { ... }
//
// The root package imports internal/*; internal/* never imports the root.
package studio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ashita-ai/studio/api"
	"github.com/ashita-ai/studio/internal/auth"
	"github.com/ashita-ai/studio/internal/config"
	"github.com/ashita-ai/studio/internal/mcp"
	"github.com/ashita-ai/studio/internal/mockdata"
	"github.com/ashita-ai/studio/internal/ratelimit"
	"github.com/ashita-ai/studio/internal/server"
	"github.com/ashita-ai/studio/internal/storage"
	builder "github.com/ashita-ai/studio/internal/studio"
	"github.com/ashita-ai/studio/internal/telemetry"
)

// shutdownTimeout bounds the HTTP drain when Run stops.
const shutdownTimeout = 15 * time.Second

// App is the studio server lifecycle. Construct with New(), run with Run().
type App struct {
	cfg          config.Config
	store        storage.Store
	srv          *server.Server
	toolsets     *builder.Toolsets
	limiter      ratelimit.Limiter
	otelShutdown telemetry.Shutdown
	logger       *slog.Logger
	version      string
}

// New loads configuration, connects storage and applies migrations, and
// wires every subsystem. It does not accept connections; call Run().
func New(opts ...Option) (*App, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.port != 0 {
		cfg.Port = o.port
	}
	if o.generationDelay != nil {
		cfg.GenerationDelay = *o.generationDelay
	}
	version := o.version
	if version == "" {
		version = "dev"
	}

	logger.Info("studio starting", "version", version, "port", cfg.Port, "storage", cfg.StorageDriver)

	ctx := context.Background()
	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	store := o.store
	if store == nil {
		store, err = storage.Open(ctx, storage.Options{
			Driver:     cfg.StorageDriver,
			SQLitePath: cfg.SQLitePath,
			DSN:        cfg.DatabaseURL,
		}, logger)
		if err != nil {
			_ = otelShutdown(ctx)
			return nil, fmt.Errorf("storage: %w", err)
		}
	}

	fail := func(err error) (*App, error) {
		_ = store.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}

	toolsets, err := builder.NewToolsets(mockdata.New(cfg.ToolDelay), cfg.ToolsetCacheSize)
	if err != nil {
		return fail(err)
	}
	registry, err := mcp.NewRegistry(cfg.ToolsetCacheSize, version, logger)
	if err != nil {
		return fail(err)
	}
	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.ShareTokenTTL, logger)
	if err != nil {
		return fail(fmt.Errorf("auth: %w", err))
	}

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		logger.Info("rate limiting enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}

	srv := server.New(server.ServerConfig{
		Sessions:            builder.NewSessions(cfg.SessionTTL, cfg.GenerationDelay),
		Store:               store,
		Toolsets:            toolsets,
		MCP:                 registry,
		JWTMgr:              jwtMgr,
		Limiter:             limiter,
		Logger:              logger,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		Version:             version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		OpenAPISpec:         api.OpenAPISpec,
	})

	return &App{
		cfg:          cfg,
		store:        store,
		srv:          srv,
		toolsets:     toolsets,
		limiter:      limiter,
		otelShutdown: otelShutdown,
		logger:       logger,
		version:      version,
	}, nil
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// down. Callers should not call Shutdown separately.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown drains HTTP connections, then releases the limiter, storage and
// telemetry exporters.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("studio shutting down")

	if err := a.srv.Shutdown(ctx); err != nil {
		a.logger.Error("http shutdown error", "error", err)
	}
	a.close(ctx)

	a.logger.Info("studio stopped")
	return nil
}

func (a *App) close(ctx context.Context) {
	_ = a.limiter.Close()
	if err := a.store.Close(); err != nil {
		a.logger.Error("storage close error", "error", err)
	}
	if err := a.otelShutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown error", "error", err)
	}
}

// ServeMCP serves the stored launched app appID as an MCP server over
// stdin/stdout until the client disconnects. It releases the App's
// resources on return; the App cannot be used afterwards.
func (a *App) ServeMCP(ctx context.Context, appID string) error {
	defer a.close(context.WithoutCancel(ctx))

	launched, err := a.store.GetApp(ctx, appID)
	if err != nil {
		return fmt.Errorf("load app %s: %w", appID, err)
	}
	set, err := a.toolsets.For(launched)
	if err != nil {
		return fmt.Errorf("build toolset: %w", err)
	}

	a.logger.Info("mcp stdio serving", "app_id", launched.ID, "tools", set.Len())
	return mcp.New(launched, set, a.version, a.logger).ServeStdio()
}
