package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/zerr"
)

const migrationTable = "schema_migrations"

// migration is one named schema step. Each name is applied at most once.
type migration struct {
	name string
	up   string
}

// embeddedMigrations reads the shared migrations in file name order.
func embeddedMigrations(migrationFS fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return nil, zerr.Wrap(err, "read migrations dir")
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "read migration"), "migration", name)
		}
		out = append(out, migration{name: name, up: extractUpMigration(string(content))})
	}
	return out, nil
}

// applyMigrations executes every migration not yet recorded in schema_migrations,
// each in its own transaction.
func applyMigrations(ctx context.Context, db *sql.DB, migrations []migration, now time.Time) error {
	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`, migrationTable)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return zerr.Wrap(err, domain.ErrMigrationFailed.Error())
	}

	for _, m := range migrations {
		if err := applyMigration(ctx, db, m, now); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrMigrationFailed.Error()), "migration", m.name)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration, now time.Time) error {
	applied, err := isApplied(ctx, db, m.name)
	if err != nil {
		return zerr.Wrap(err, "check migration")
	}
	if applied || strings.TrimSpace(m.up) == "" {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zerr.Wrap(err, "begin migration transaction")
	}

	if _, err := tx.ExecContext(ctx, m.up); err != nil && !isAlreadyExistsError(err) {
		_ = tx.Rollback()
		return zerr.Wrap(err, "exec migration")
	}

	if _, err := tx.ExecContext(
		ctx,
		fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", migrationTable),
		m.name,
		domain.ToMillis(now),
	); err != nil {
		_ = tx.Rollback()
		return zerr.Wrap(err, "record migration")
	}

	if err := tx.Commit(); err != nil {
		return zerr.Wrap(err, "commit migration")
	}
	return nil
}

// extractUpMigration returns the SQL in the -- +migrate Up section.
func extractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}

// isAlreadyExistsError reports whether err indicates idempotent DDL success.
func isAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found int
	row := db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
