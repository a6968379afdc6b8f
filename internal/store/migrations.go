package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/tpq-attendance/internal/logger"
)

// migration takes the database from version-1 to version. up runs inside a
// transaction that also records the version, so a step is applied entirely
// or not at all.
type migration struct {
	version     int
	description string
	up          func(ctx context.Context, tx *sqlx.Tx, log logger.Logger) error
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version:     1,
		description: "create students and attendance keyed by numeric id",
		up: execAll(
			schemaVersionDDL,
			studentsV1DDL,
			attendanceV1DDL,
			attendanceV1IndexDDL,
		),
	},
	{
		version:     2,
		description: "add demographic and progress fields to students",
		up: addColumns("students",
			"gender TEXT",
			"birth_date INTEGER",
			"position TEXT",
			"iqro_volume INTEGER",
			"iqro_page INTEGER",
			"quran_surah TEXT",
			"quran_ayat INTEGER",
		),
	},
	{
		version:     3,
		description: "add session progress and pass flag to attendance",
		up: addColumns("attendance",
			"iqro_volume INTEGER",
			"iqro_page INTEGER",
			"quran_surah TEXT",
			"quran_ayat INTEGER",
			"is_passed INTEGER",
		),
	},
	{
		version:     4,
		description: "add teacher note to attendance",
		up:          addColumns("attendance", "note TEXT"),
	},
	{
		version:     5,
		description: "add nullable student_code to students",
		up:          addColumns("students", "student_code TEXT"),
	},
	{
		version:     6,
		description: "re-key students and attendance by student_code",
		up:          rekeyByStudentCode,
	},
}

// execAll returns a step running each statement in order.
func execAll(stmts ...string) func(context.Context, *sqlx.Tx, logger.Logger) error {
	return func(ctx context.Context, tx *sqlx.Tx, _ logger.Logger) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}

// addColumns returns a step widening table with nullable columns.
func addColumns(table string, columns ...string) func(context.Context, *sqlx.Tx, logger.Logger) error {
	stmts := make([]string, len(columns))
	for i, col := range columns {
		stmts[i] = fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, col)
	}
	return execAll(stmts...)
}

// checkChain verifies that the migrations cover 1..LatestVersion in order.
func checkChain(ms []migration) error {
	if len(ms) != LatestVersion {
		return fmt.Errorf("%w: %d steps for version %d", ErrMigrationGap, len(ms), LatestVersion)
	}
	for i, m := range ms {
		if m.version != i+1 {
			return fmt.Errorf("%w: step %d declares version %d", ErrMigrationGap, i+1, m.version)
		}
		if m.up == nil {
			return fmt.Errorf("%w: version %d has no step", ErrMigrationGap, m.version)
		}
	}
	return nil
}

// currentVersion returns the highest applied version, or 0 for a database
// without a schema_version table.
func currentVersion(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	var tableCount int
	err := sqlx.GetContext(ctx, q, &tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return 0, fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount == 0 {
		return 0, nil
	}

	var version int
	err = sqlx.GetContext(ctx, q, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// runMigrations brings db to LatestVersion. An empty database gets the
// latest schema directly; an older one walks the chain step by step.
func runMigrations(ctx context.Context, db *sqlx.DB, log logger.Logger) error {
	// A started upgrade always runs to completion.
	ctx = context.WithoutCancel(ctx)

	if err := checkChain(migrations); err != nil {
		return err
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	switch {
	case current > LatestVersion:
		return fmt.Errorf("%w: found v%d, latest is v%d", ErrSchemaTooNew, current, LatestVersion)
	case current == LatestVersion:
		log.Debug("schema up to date", "version", current)
		return nil
	case current == 0:
		log.Info("creating schema", "version", LatestVersion)
		return bootstrap(ctx, db)
	}

	log.Info("upgrading schema", "from", current, "to", LatestVersion)
	return migrateTo(ctx, db, current, LatestVersion, log)
}

// migrateTo applies every step with from < version <= target.
func migrateTo(ctx context.Context, db *sqlx.DB, from, target int, log logger.Logger) error {
	for _, m := range migrations {
		if m.version <= from || m.version > target {
			continue
		}
		if err := applyMigration(ctx, db, m, log); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, m migration, log logger.Logger) error {
	stepLog := log.With("version", m.version)
	stepLog.Info("applying migration", "description", m.description)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration v%d: %w", m.version, err)
	}
	defer tx.Rollback()

	if err := m.up(ctx, tx, stepLog); err != nil {
		stepLog.Error("migration failed", "err", err)
		return fmt.Errorf("applying migration v%d (%s): %w", m.version, m.description, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return fmt.Errorf("recording migration v%d: %w", m.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration v%d: %w", m.version, err)
	}
	return nil
}

// bootstrap creates the latest schema on an empty database. It uses the
// same DDL the upgrade path ends with.
func bootstrap(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning bootstrap: %w", err)
	}
	defer tx.Rollback()

	create := execAll(schemaVersionDDL, studentsDDL, attendanceDDL, attendanceIndexDDL)
	if err := create(ctx, tx, logger.Nop()); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version) VALUES (?)", LatestVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return tx.Commit()
}
