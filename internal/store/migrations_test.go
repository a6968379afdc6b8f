package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/model"
)

var (
	day1 = model.DayKey(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.Local))
	day2 = model.DayKey(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local))
)

// legacyDB creates a database file at the given schema version and returns
// its path and an open connection to it.
func legacyDB(t *testing.T, version int) (string, *sqlx.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sqlx.Open("sqlite", dsn(path))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrateTo(context.Background(), db, 0, version, logger.Nop()))
	return path, db
}

func insertLegacyStudent(t *testing.T, db *sqlx.DB, id int64, name string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO students (id, name, created_at) VALUES (?, ?, ?)", id, name, 1000+id)
	require.NoError(t, err)
}

func setLegacyCode(t *testing.T, db *sqlx.DB, id int64, code string) {
	t.Helper()
	_, err := db.Exec("UPDATE students SET student_code = ? WHERE id = ?", code, id)
	require.NoError(t, err)
}

func insertLegacyAttendance(t *testing.T, db *sqlx.DB, studentID, date int64, present bool) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO attendance (student_id, date, is_present, created_at) VALUES (?, ?, ?, ?)",
		studentID, date, boolToInt(present), date+1)
	require.NoError(t, err)
}

type schemaEntry struct {
	Type    string `db:"type"`
	Name    string `db:"name"`
	TblName string `db:"tbl_name"`
	SQL     string `db:"sql"`
}

// schemaOf lists the user schema. Internal sqlite_ tables are left out: an
// upgraded database keeps the sqlite_sequence table created for the v1
// AUTOINCREMENT key, which SQLite never drops, while a fresh one has none.
func schemaOf(t *testing.T, q sqlx.Queryer) []schemaEntry {
	t.Helper()
	var entries []schemaEntry
	err := sqlx.Select(q, &entries, `
		SELECT type, name, tbl_name, COALESCE(sql, '') AS sql
		FROM sqlite_master
		WHERE name NOT LIKE 'sqlite_%'
		ORDER BY type, name`)
	require.NoError(t, err)
	return entries
}

func TestMigrationChainIsComplete(t *testing.T) {
	require.NoError(t, checkChain(migrations))
	assert.Equal(t, LatestVersion, migrations[len(migrations)-1].version)
}

func TestCheckChainDetectsGaps(t *testing.T) {
	tests := []struct {
		name string
		ms   []migration
	}{
		{name: "missing last step", ms: migrations[:LatestVersion-1]},
		{
			name: "skipped version",
			ms: func() []migration {
				ms := append([]migration(nil), migrations...)
				ms[2].version = 4
				return ms
			}(),
		},
		{
			name: "step without body",
			ms: func() []migration {
				ms := append([]migration(nil), migrations...)
				ms[0].up = nil
				return ms
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, checkChain(tt.ms), ErrMigrationGap)
		})
	}
}

func TestFreshDatabaseStartsAtLatest(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	defer s.Close()

	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LatestVersion, v)

	var rows int
	require.NoError(t, s.db.Get(&rows, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, 1, rows)
}

func TestReopenIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpq.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	before := schemaOf(t, s.db)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, before, schemaOf(t, s.db))
	var rows int
	require.NoError(t, s.db.Get(&rows, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, 1, rows)
}

func TestUpgradeMatchesFreshSchema(t *testing.T) {
	fresh, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	defer fresh.Close()
	want := schemaOf(t, fresh.db)

	for v := 1; v < LatestVersion; v++ {
		t.Run(fmt.Sprintf("from v%d", v), func(t *testing.T) {
			path, db := legacyDB(t, v)
			insertLegacyStudent(t, db, 1, "Ali")
			insertLegacyAttendance(t, db, 1, day1, true)
			require.NoError(t, db.Close())

			s, err := NewSQLiteStore(path)
			require.NoError(t, err)
			defer s.Close()

			assert.Equal(t, want, schemaOf(t, s.db))

			got, err := s.SchemaVersion(context.Background())
			require.NoError(t, err)
			assert.Equal(t, LatestVersion, got)
			assert.NoError(t, s.Verify(context.Background()))
		})
	}
}

func TestUpgradeRekeysStudentsAndAttendance(t *testing.T) {
	ctx := context.Background()
	path, db := legacyDB(t, 5)

	insertLegacyStudent(t, db, 1, "Ali")
	insertLegacyStudent(t, db, 3, "Budi")
	setLegacyCode(t, db, 1, "A001")
	_, err := db.Exec("UPDATE students SET gender = 'L', iqro_volume = 2, iqro_page = 14 WHERE id = 1")
	require.NoError(t, err)

	insertLegacyAttendance(t, db, 1, day1, true)
	insertLegacyAttendance(t, db, 1, day2, false)
	insertLegacyAttendance(t, db, 3, day1, true)
	_, err = db.Exec("UPDATE attendance SET is_passed = 1, note = 'lancar' WHERE student_id = 3")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	ali, err := s.GetStudent(ctx, "A001")
	require.NoError(t, err)
	assert.Equal(t, "Ali", ali.Name)
	assert.Equal(t, int64(1001), ali.CreatedAt)
	require.NotNil(t, ali.Gender)
	assert.Equal(t, "L", *ali.Gender)
	require.NotNil(t, ali.IqroPage)
	assert.Equal(t, 14, *ali.IqroPage)

	budi, err := s.GetStudent(ctx, "STU3")
	require.NoError(t, err)
	assert.Equal(t, "Budi", budi.Name)

	var total int
	require.NoError(t, s.db.Get(&total, "SELECT COUNT(*) FROM attendance"))
	assert.Equal(t, 3, total)

	rec, err := s.GetAttendance(ctx, "STU3", day1)
	require.NoError(t, err)
	assert.True(t, rec.IsPresent)
	assert.True(t, rec.Passed())
	require.NotNil(t, rec.Note)
	assert.Equal(t, "lancar", *rec.Note)

	absent, err := s.GetAttendance(ctx, "A001", day2)
	require.NoError(t, err)
	assert.False(t, absent.IsPresent)
	assert.Nil(t, absent.IsPassed)

	var backups int
	require.NoError(t, s.db.Get(&backups,
		"SELECT COUNT(*) FROM sqlite_master WHERE name LIKE '%_backup'"))
	assert.Zero(t, backups)

	var sequences int
	require.NoError(t, s.db.Get(&sequences,
		"SELECT COUNT(*) FROM sqlite_sequence WHERE name = 'students'"))
	assert.Zero(t, sequences, "the old id counter is cleared")
}

func TestUpgradeResolvesCodeCollisions(t *testing.T) {
	ctx := context.Background()
	path, db := legacyDB(t, 5)

	insertLegacyStudent(t, db, 2, "Citra")
	insertLegacyStudent(t, db, 5, "Dewi")
	insertLegacyStudent(t, db, 7, "Eka")
	insertLegacyStudent(t, db, 9, "Fajar")
	setLegacyCode(t, db, 2, "STU7")
	setLegacyCode(t, db, 5, "X1")
	setLegacyCode(t, db, 9, "X1")
	insertLegacyAttendance(t, db, 7, day1, true)
	insertLegacyAttendance(t, db, 9, day1, true)
	require.NoError(t, db.Close())

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	tests := []struct {
		code string
		name string
	}{
		{"STU7", "Citra"},
		{"STU7-1", "Eka"},
		{"X1", "Dewi"},
		{"X1-1", "Fajar"},
	}
	for _, tt := range tests {
		st, err := s.GetStudent(ctx, tt.code)
		require.NoError(t, err, tt.code)
		assert.Equal(t, tt.name, st.Name)
	}

	_, err = s.GetAttendance(ctx, "STU7-1", day1)
	assert.NoError(t, err)
	_, err = s.GetAttendance(ctx, "X1-1", day1)
	assert.NoError(t, err)
}

func TestUpgradeRollsBackOnOrphanedAttendance(t *testing.T) {
	path, db := legacyDB(t, 5)

	insertLegacyStudent(t, db, 1, "Ali")
	_, err := db.Exec("PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	insertLegacyAttendance(t, db, 42, day1, true)
	require.NoError(t, db.Close())

	_, err = NewSQLiteStore(path)
	require.ErrorIs(t, err, ErrOrphanedAttendance)

	raw, err := sqlx.Open("sqlite", dsn(path))
	require.NoError(t, err)
	defer raw.Close()

	v, err := currentVersion(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	var ids int
	require.NoError(t, raw.Get(&ids, "SELECT COUNT(id) FROM students"))
	assert.Equal(t, 1, ids)
}

func TestNewerSchemaIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpq.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", LatestVersion+1)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = NewSQLiteStore(path)
	assert.ErrorIs(t, err, ErrSchemaTooNew)
}

func TestBackupFileKeepsOldSchema(t *testing.T) {
	ctx := context.Background()
	path, db := legacyDB(t, 5)
	insertLegacyStudent(t, db, 1, "Ali")

	v, err := ReadVersion(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	target := filepath.Join(t.TempDir(), "before-upgrade.db")
	require.NoError(t, BackupFile(ctx, path, target))

	v, err = ReadVersion(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 5, v, "the copy is not migrated")

	missing := filepath.Join(t.TempDir(), "missing.db")
	_, err = ReadVersion(ctx, missing)
	require.Error(t, err)
	assert.NoFileExists(t, missing)
}

func TestConcurrentFirstGetMigratesOnce(t *testing.T) {
	ctx := context.Background()
	path, db := legacyDB(t, 5)
	insertLegacyStudent(t, db, 3, "Budi")
	insertLegacyAttendance(t, db, 3, day1, true)
	require.NoError(t, db.Close())

	h := NewHandle(path)
	defer h.Close()

	const callers = 16
	stores := make([]*SQLiteStore, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			stores[i], errs[i] = h.Get()
		}()
	}
	close(start)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, stores[0], stores[i])
	}

	s := stores[0]
	var rows int
	require.NoError(t, s.db.Get(&rows, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, LatestVersion, rows, "each step recorded once")

	rec, err := s.GetAttendance(ctx, "STU3", day1)
	require.NoError(t, err)
	assert.True(t, rec.IsPresent)
}
