package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ashita-ai/studio/internal/model"
)

// sqliteTime is fixed width so lexical order matches time order.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore is the SQLite Store. Use ":memory:" for a throwaway database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens (or creates) the database at path.
func NewSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %q: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// RunMigrations applies unapplied migrations from migrationsFS.
func (s *SQLiteStore) RunMigrations(ctx context.Context, migrationsFS fs.FS) error {
	return runMigrations(ctx, s, migrationsFS, s.logger)
}

func (s *SQLiteStore) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		)
	`)
	return err
}

func (s *SQLiteStore) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

func (s *SQLiteStore) applyMigration(ctx context.Context, name, body string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES (?) ON CONFLICT DO NOTHING`, name,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveApp upserts app.
func (s *SQLiteStore) SaveApp(ctx context.Context, app model.LaunchedApp) error {
	cols, err := encodeApp(app)
	if err != nil {
		return err
	}
	err = WithRetry(ctx, 3, 10*time.Millisecond, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO launched_apps
				(id, name, template_id, system_prompt, enabled_components, enabled_servers, data_sources, launched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				template_id = excluded.template_id,
				system_prompt = excluded.system_prompt,
				enabled_components = excluded.enabled_components,
				enabled_servers = excluded.enabled_servers,
				data_sources = excluded.data_sources,
				launched_at = excluded.launched_at`,
			app.ID, app.Name, app.TemplateID, app.SystemPrompt,
			string(cols.components), string(cols.servers), string(cols.sources),
			app.LaunchedAt.UTC().Format(sqliteTime),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("storage: save app %s: %w", app.ID, err)
	}
	return nil
}

// GetApp returns app id.
func (s *SQLiteStore) GetApp(ctx context.Context, id string) (model.LaunchedApp, error) {
	app, err := scanSQLiteApp(s.db.QueryRowContext(ctx, selectApp+` WHERE id = ?`, id))
	if err != nil {
		return model.LaunchedApp{}, fmt.Errorf("storage: get app %s: %w", id, err)
	}
	return app, nil
}

// LatestApp returns the most recently launched app.
func (s *SQLiteStore) LatestApp(ctx context.Context) (model.LaunchedApp, error) {
	app, err := scanSQLiteApp(s.db.QueryRowContext(ctx, selectApp+` ORDER BY launched_at DESC, rowid DESC LIMIT 1`))
	if err != nil {
		return model.LaunchedApp{}, fmt.Errorf("storage: latest app: %w", err)
	}
	return app, nil
}

func scanSQLiteApp(row *sql.Row) (model.LaunchedApp, error) {
	var app model.LaunchedApp
	var components, servers, srcs, launchedAt string
	err := row.Scan(&app.ID, &app.Name, &app.TemplateID, &app.SystemPrompt,
		&components, &servers, &srcs, &launchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LaunchedApp{}, ErrNotFound
	}
	if err != nil {
		return model.LaunchedApp{}, err
	}
	cols := appColumns{components: []byte(components), servers: []byte(servers), sources: []byte(srcs)}
	if err := cols.decodeInto(&app); err != nil {
		return model.LaunchedApp{}, err
	}
	if app.LaunchedAt, err = time.Parse(sqliteTime, launchedAt); err != nil {
		return model.LaunchedApp{}, fmt.Errorf("storage: parse launched_at: %w", err)
	}
	return app, nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
