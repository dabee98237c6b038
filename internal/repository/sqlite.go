package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kai-65537/AOLOT-scoreboard/internal/models"
)

// defaultListLimit caps ListLoads when the caller passes no limit
const defaultListLimit = 50

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS config_loads (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			path TEXT,
			success BOOLEAN NOT NULL,
			error_kind TEXT,
			error_message TEXT,
			components INTEGER NOT NULL DEFAULT 0,
			hotkeys INTEGER NOT NULL DEFAULT 0,
			loaded_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_config_loads_loaded_at ON config_loads(loaded_at)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Config Load Methods ====================

// RecordLoad stores one load attempt. Missing ids and timestamps are filled in.
func (r *Repository) RecordLoad(ctx context.Context, load models.ConfigLoad) error {
	if load.ID == "" {
		load.ID = uuid.NewString()
	}
	if load.LoadedAt.IsZero() {
		load.LoadedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config_loads (id, source, path, success, error_kind, error_message, components, hotkeys, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		load.ID, string(load.Source), nullString(load.Path), load.Success,
		nullString(load.ErrorKind), nullString(load.ErrorMessage),
		load.Components, load.Hotkeys, load.LoadedAt.UTC())
	return err
}

// ListLoads returns the most recent load attempts, newest first
func (r *Repository) ListLoads(ctx context.Context, limit int) ([]models.ConfigLoad, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, path, success, error_kind, error_message, components, hotkeys, loaded_at
		FROM config_loads
		ORDER BY loaded_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loads := make([]models.ConfigLoad, 0)
	for rows.Next() {
		load, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, load)
	}
	return loads, rows.Err()
}

// LastSuccessfulLoad returns the newest successful load
func (r *Repository) LastSuccessfulLoad(ctx context.Context) (*models.ConfigLoad, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source, path, success, error_kind, error_message, components, hotkeys, loaded_at
		FROM config_loads
		WHERE success = 1
		ORDER BY loaded_at DESC, rowid DESC
		LIMIT 1`)
	load, err := scanLoad(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &load, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLoad(s scanner) (models.ConfigLoad, error) {
	var (
		load                models.ConfigLoad
		source              string
		path, kind, message sql.NullString
	)
	err := s.Scan(&load.ID, &source, &path, &load.Success, &kind, &message,
		&load.Components, &load.Hotkeys, &load.LoadedAt)
	if err != nil {
		return models.ConfigLoad{}, err
	}
	load.Source = models.LoadSource(source)
	load.Path = path.String
	load.ErrorKind = kind.String
	load.ErrorMessage = message.String
	return load, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}
