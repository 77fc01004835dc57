// Package storage persists launched apps.
//
// Two implementations share one Store interface: SQLiteStore (pure-Go SQLite,
// the default for single-node runs and tests) and DB (PostgreSQL through
// pgxpool, for server deployments). Both apply embedded forward-only migrations.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ashita-ai/studio/internal/model"
)

// ErrNotFound is returned when a requested app does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store is the launched-app persistence interface.
type Store interface {
	// SaveApp inserts app, replacing any app with the same id.
	SaveApp(ctx context.Context, app model.LaunchedApp) error
	// GetApp returns app id, or ErrNotFound.
	GetApp(ctx context.Context, id string) (model.LaunchedApp, error)
	// LatestApp returns the most recently launched app, or ErrNotFound.
	LatestApp(ctx context.Context) (model.LaunchedApp, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// appColumns are the JSON-encoded list columns of launched_apps.
type appColumns struct {
	components []byte
	servers    []byte
	sources    []byte
}

func encodeApp(app model.LaunchedApp) (appColumns, error) {
	var (
		c   appColumns
		err error
	)
	if c.components, err = json.Marshal(nonNil(app.EnabledComponents)); err != nil {
		return c, fmt.Errorf("storage: encode components: %w", err)
	}
	if c.servers, err = json.Marshal(nonNil(app.EnabledServers)); err != nil {
		return c, fmt.Errorf("storage: encode servers: %w", err)
	}
	sources := app.DataSources
	if sources == nil {
		sources = []model.DataSource{}
	}
	if c.sources, err = json.Marshal(sources); err != nil {
		return c, fmt.Errorf("storage: encode data sources: %w", err)
	}
	return c, nil
}

func (c appColumns) decodeInto(app *model.LaunchedApp) error {
	if err := json.Unmarshal(c.components, &app.EnabledComponents); err != nil {
		return fmt.Errorf("storage: decode components: %w", err)
	}
	if err := json.Unmarshal(c.servers, &app.EnabledServers); err != nil {
		return fmt.Errorf("storage: decode servers: %w", err)
	}
	if err := json.Unmarshal(c.sources, &app.DataSources); err != nil {
		return fmt.Errorf("storage: decode data sources: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
