package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/dshills/callerid-mcp/internal/normalize"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.2.0"
)

// Migration represents a database schema migration. Backfill, when set,
// runs after Up for data that SQL alone cannot derive.
type Migration struct {
	Version  string
	Up       string
	Down     string
	Backfill func(ctx context.Context, db *sql.DB) error
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
	{
		Version: "1.1.0",
		Up:      migrationV11Up,
		Down:    migrationV11Down,
	},
	{
		Version:  "1.2.0",
		Up:       migrationV12Up,
		Down:     migrationV12Down,
		Backfill: backfillFoldedNames,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Registered accounts
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    phone_number TEXT NOT NULL UNIQUE,
    email TEXT UNIQUE,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_display_name ON accounts(display_name);

-- Per-owner address book entries
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES accounts(id) ON DELETE CASCADE,
    UNIQUE(owner_id, phone_number)
);

CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone_number);
CREATE INDEX IF NOT EXISTS idx_contacts_display_name ON contacts(display_name);

-- Spam reports; retracted rows stay for history
CREATE TABLE IF NOT EXISTS spam_reports (
    id TEXT PRIMARY KEY,
    reporter_id TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    reported_at INTEGER NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT 1,
    retracted_at INTEGER,
    FOREIGN KEY (reporter_id) REFERENCES accounts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_spam_reports_phone ON spam_reports(phone_number, is_active);

-- One active report per reporter and number
CREATE UNIQUE INDEX IF NOT EXISTS idx_spam_reports_active_unique
    ON spam_reports(reporter_id, phone_number)
    WHERE is_active = 1;
`

const migrationV1Down = `
-- Drop all tables in reverse order of dependencies
DROP TABLE IF EXISTS spam_reports;
DROP TABLE IF EXISTS contacts;
DROP TABLE IF EXISTS accounts;
DROP TABLE IF EXISTS schema_version;
`

// Statistics scan active reports by time window
const migrationV11Up = `
CREATE INDEX IF NOT EXISTS idx_spam_reports_reported_at ON spam_reports(is_active, reported_at);
`

const migrationV11Down = `
DROP INDEX IF EXISTS idx_spam_reports_reported_at;
`

// Name searches match Unicode case-folded names
const migrationV12Up = `
ALTER TABLE accounts ADD COLUMN display_name_folded TEXT NOT NULL DEFAULT '';
ALTER TABLE contacts ADD COLUMN display_name_folded TEXT NOT NULL DEFAULT '';
`

const migrationV12Down = `
ALTER TABLE contacts DROP COLUMN display_name_folded;
ALTER TABLE accounts DROP COLUMN display_name_folded;
`

// backfillFoldedNames folds the names of rows written before 1.2.0. Rows
// are read in full before updating since the pool holds one connection.
func backfillFoldedNames(ctx context.Context, db *sql.DB) error {
	type row struct{ id, name string }

	for _, table := range []string{"accounts", "contacts"} {
		rows, err := db.QueryContext(ctx, "SELECT id, display_name FROM "+table)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", table, err)
		}
		var pending []row
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.id, &r.name); err != nil {
				_ = rows.Close()
				return err
			}
			pending = append(pending, r)
		}
		_ = rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, r := range pending {
			if _, err := db.ExecContext(ctx, "UPDATE "+table+" SET display_name_folded = ? WHERE id = ?", normalize.Fold(r.name), r.id); err != nil {
				return fmt.Errorf("failed to fold %s name: %w", table, err)
			}
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration version, or 0.0.0
// for a fresh database. Versions are compared as semver because several
// migrations can be recorded within the same second.
func SchemaVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	current := semver.MustParse("0.0.0")

	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return current, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", raw, err)
		}
		if v.GreaterThan(current) {
			current = v
		}
	}
	return current, rows.Err()
}

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	currentVersion, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	// Run migrations in order
	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !currentVersion.LessThan(migrationVersion) {
			continue // Already applied
		}

		if _, err := db.ExecContext(ctx, migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		if migration.Backfill != nil {
			if err := migration.Backfill(ctx, db); err != nil {
				return fmt.Errorf("failed to backfill migration %s: %w", migration.Version, err)
			}
		}

		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}

// RollbackMigration rolls back the most recent migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	version, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if version.Equal(semver.MustParse("0.0.0")) {
		return fmt.Errorf("no migrations to rollback")
	}

	var migration *Migration
	for i := range AllMigrations {
		v, err := semver.NewVersion(AllMigrations[i].Version)
		if err == nil && v.Equal(version) {
			migration = &AllMigrations[i]
			break
		}
	}
	if migration == nil {
		return fmt.Errorf("migration %s not found", version)
	}

	if _, err := db.ExecContext(ctx, migration.Down); err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", migration.Version, err)
	}

	// The first migration's Down drops schema_version itself
	if _, err := db.ExecContext(ctx, "DELETE FROM schema_version WHERE version = ?", migration.Version); err != nil {
		if migration.Version != AllMigrations[0].Version {
			return fmt.Errorf("failed to remove migration record %s: %w", migration.Version, err)
		}
	}

	return nil
}
