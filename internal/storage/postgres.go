package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashita-ai/studio/internal/model"
)

// DB is the PostgreSQL Store, backed by a pgxpool.Pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ Store = (*DB)(nil)

// NewPostgres connects to dsn and verifies the connection.
func NewPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: parse pool DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: ping pool: %w", err)
	}

	return &DB{pool: pool, logger: logger}, nil
}

// Pool returns the underlying connection pool.
func (db *DB) Pool() *pgxpool.Pool { return db.pool }

// RunMigrations applies unapplied migrations from migrationsFS.
func (db *DB) RunMigrations(ctx context.Context, migrationsFS fs.FS) error {
	return runMigrations(ctx, db, migrationsFS, db.logger)
}

func (db *DB) ensureMigrationsTable(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (db *DB) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := db.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (db *DB) applyMigration(ctx context.Context, name, body string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, body); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING`, name,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveApp upserts app.
func (db *DB) SaveApp(ctx context.Context, app model.LaunchedApp) error {
	cols, err := encodeApp(app)
	if err != nil {
		return err
	}
	err = WithRetry(ctx, 3, 10*time.Millisecond, func() error {
		_, err := db.pool.Exec(ctx, `
			INSERT INTO launched_apps
				(id, name, template_id, system_prompt, enabled_components, enabled_servers, data_sources, launched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				template_id = EXCLUDED.template_id,
				system_prompt = EXCLUDED.system_prompt,
				enabled_components = EXCLUDED.enabled_components,
				enabled_servers = EXCLUDED.enabled_servers,
				data_sources = EXCLUDED.data_sources,
				launched_at = EXCLUDED.launched_at`,
			app.ID, app.Name, app.TemplateID, app.SystemPrompt,
			cols.components, cols.servers, cols.sources, app.LaunchedAt.UTC(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("storage: save app %s: %w", app.ID, err)
	}
	return nil
}

const selectApp = `
	SELECT id, name, template_id, system_prompt, enabled_components, enabled_servers, data_sources, launched_at
	FROM launched_apps`

// GetApp returns app id.
func (db *DB) GetApp(ctx context.Context, id string) (model.LaunchedApp, error) {
	app, err := db.scanApp(db.pool.QueryRow(ctx, selectApp+` WHERE id = $1`, id))
	if err != nil {
		return model.LaunchedApp{}, fmt.Errorf("storage: get app %s: %w", id, err)
	}
	return app, nil
}

// LatestApp returns the most recently launched app.
func (db *DB) LatestApp(ctx context.Context) (model.LaunchedApp, error) {
	app, err := db.scanApp(db.pool.QueryRow(ctx, selectApp+` ORDER BY launched_at DESC, id DESC LIMIT 1`))
	if err != nil {
		return model.LaunchedApp{}, fmt.Errorf("storage: latest app: %w", err)
	}
	return app, nil
}

func (db *DB) scanApp(row pgx.Row) (model.LaunchedApp, error) {
	var (
		app  model.LaunchedApp
		cols appColumns
	)
	err := row.Scan(&app.ID, &app.Name, &app.TemplateID, &app.SystemPrompt,
		&cols.components, &cols.servers, &cols.sources, &app.LaunchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LaunchedApp{}, ErrNotFound
	}
	if err != nil {
		return model.LaunchedApp{}, err
	}
	if err := cols.decodeInto(&app); err != nil {
		return model.LaunchedApp{}, err
	}
	app.LaunchedAt = app.LaunchedAt.UTC()
	return app, nil
}

// Ping checks the pool.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close releases the pool.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}
