// Package bootstrap opens the configured backend and builds the shared state
// container for the server and the admin CLI.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"goodlife/internal/adapters/http/perf"
	"goodlife/internal/adapters/storage"
	"goodlife/internal/application/state"
	"goodlife/internal/config"
)

// OpenDB connects to the configured backend and brings its schema up to date
// when migrate is set. Otherwise a schema behind the code is only logged.
// PRE: cfg.BackendConfigured()
// POST: returns a pinged handle and its dialect
func OpenDB(cfg config.Config, migrate bool) (*sql.DB, storage.Dialect, error) {
	d, err := storage.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}
	db, err := storage.Open(d, cfg.DBDSN)
	if err != nil {
		return nil, "", err
	}
	if migrate {
		if err := storage.MigrateDB(db, d); err != nil {
			db.Close()
			return nil, "", fmt.Errorf("migrate: %w", err)
		}
		return db, d, nil
	}
	v, err := storage.SchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, "", err
	}
	if v < storage.LatestSchemaVersion() {
		slog.Warn("schema_behind", "version", v, "latest", storage.LatestSchemaVersion(), "hint", "run goodlifectl migrate")
	}
	return db, d, nil
}

// State is the loaded container plus whatever must be closed with it.
type State struct {
	Container *state.Container
	db        *sql.DB
}

// Close releases the backend connection, if any.
func (s *State) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadState builds the container. Without a connection string it serves the
// seed fixtures only; with one it loads every collection over the seed data
// according to the configured empty-result policy.
// POST: Container.Connected() == cfg.BackendConfigured()
func LoadState(ctx context.Context, cfg config.Config, collector *perf.Collector) (*State, error) {
	if !cfg.BackendConfigured() {
		slog.Info("state_mode", "mode", "local")
		return &State{Container: state.New(state.Seed(), nil)}, nil
	}
	db, d, err := OpenDB(cfg, cfg.AutoMigrate)
	if err != nil {
		return nil, err
	}
	backend := state.NewSQLBackend(storage.NewTimedDB(db, d, collector))
	c := state.New(state.Seed(), backend)
	report, err := c.Load(ctx, state.LoadPolicy{TreatEmptyAsMissing: cfg.TreatEmptyAsMissing})
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("state_mode", "mode", "connected", "dialect", string(d),
		"replaced", report.Replaced, "kept", report.Kept, "failed", len(report.Failed))
	return &State{Container: c, db: db}, nil
}
