package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ashita-ai/studio/migrations"
)

// Options selects and configures a Store for Open.
type Options struct {
	Driver     string
	SQLitePath string
	DSN        string
}

// Open connects the configured driver and applies its migrations.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		s, err := NewSQLite(ctx, opts.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		if err := s.RunMigrations(ctx, migrations.SQLite()); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		db, err := NewPostgres(ctx, opts.DSN, logger)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, migrations.Postgres()); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
