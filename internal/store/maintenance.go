package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
)

// SchemaVersion returns the version recorded in schema_version.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.db)
}

// Verify runs SQLite's integrity check and the foreign key check.
func (s *SQLiteStore) Verify(ctx context.Context) error {
	var results []string
	if err := s.db.SelectContext(ctx, &results, "PRAGMA integrity_check"); err != nil {
		return fmt.Errorf("running integrity check: %w", err)
	}
	if len(results) != 1 || results[0] != "ok" {
		return fmt.Errorf("integrity check failed: %v", results)
	}
	return checkForeignKeys(ctx, s.db)
}

// Backup writes a consistent copy of the database to path. The target must
// not exist.
func (s *SQLiteStore) Backup(ctx context.Context, path string) error {
	if err := vacuumInto(ctx, s.db, path); err != nil {
		return err
	}
	s.log.Info("database backed up", "path", path)
	return nil
}

// BackupFile copies the database at dbPath to target without migrating it,
// so a copy of the old schema can be kept before an upgrade.
func BackupFile(ctx context.Context, dbPath, target string) error {
	db, err := openExisting(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return vacuumInto(ctx, db, target)
}

// ReadVersion returns the schema version of the database at dbPath without
// migrating it.
func ReadVersion(ctx context.Context, dbPath string) (int, error) {
	db, err := openExisting(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return currentVersion(ctx, db)
}

// openExisting opens dbPath without creating or migrating it.
func openExisting(dbPath string) (*sqlx.DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	db, err := sqlx.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func vacuumInto(ctx context.Context, db *sqlx.DB, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("backup target %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("backing up to %s: %w", path, err)
	}
	return nil
}
