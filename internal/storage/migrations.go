package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/four-pillars/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Geocoded place cache",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS places (
					key TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					display_name TEXT,
					latitude REAL NOT NULL,
					longitude REAL NOT NULL,
					timezone TEXT,
					timezone_fallback INTEGER NOT NULL DEFAULT 0,
					source TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Classification history",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS results (
					case_id TEXT PRIMARY KEY,
					name TEXT,
					birth_date TEXT,
					birth_time TEXT,
					place TEXT,
					chart TEXT NOT NULL,
					constitution TEXT NOT NULL,
					confidence REAL NOT NULL,
					payload TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Index history by recency and constitution",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_results_constitution ON results(constitution)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Key history by birth record so people sharing a chart keep separate rows",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE results_by_record (
					id TEXT PRIMARY KEY,
					case_id TEXT NOT NULL,
					name TEXT,
					birth_date TEXT,
					birth_time TEXT,
					place TEXT,
					chart TEXT NOT NULL,
					constitution TEXT NOT NULL,
					confidence REAL NOT NULL,
					payload TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`INSERT INTO results_by_record (id, case_id, name, birth_date, birth_time, place, chart, constitution, confidence, payload, created_at)
					SELECT case_id, case_id, name, birth_date, birth_time, place, chart, constitution, confidence, payload, created_at
					FROM results`,
				`DROP TABLE results`,
				`ALTER TABLE results_by_record RENAME TO results`,
				`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_results_constitution ON results(constitution)`,
				`CREATE INDEX IF NOT EXISTS idx_results_case_id ON results(case_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// SchemaVersion reports the database's current user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d",
			common.ErrDatabaseCorrupted, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
