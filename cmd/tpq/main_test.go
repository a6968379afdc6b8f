package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/store"
)

// run executes the CLI with a config file and database in a temp dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TPQ_LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "tpq.db"),
	}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDBVersionWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "db", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "does not exist yet")
	assert.NoFileExists(t, filepath.Join(dir, "tpq.db"))
}

func TestDBUpgradeThenVerify(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "db", "upgrade")
	require.NoError(t, err)
	assert.Contains(t, out, "upgraded from v0 to v6")

	out, err = run(t, dir, "db", "upgrade")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date (v6)")

	out, err = run(t, dir, "db", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "schema v6, integrity ok")

	out, err = run(t, dir, "db", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "v6 (latest v6)")
}

func TestReport(t *testing.T) {
	dir := t.TempDir()

	s, err := store.NewSQLiteStore(filepath.Join(dir, "tpq.db"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.UpsertStudent(ctx, model.Student{StudentCode: "S1", Name: "Ali"}))
	day := model.DayKey(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.Local))
	require.NoError(t, s.UpsertAttendance(ctx, model.Attendance{StudentCode: "S1", Date: day, IsPresent: true}))
	require.NoError(t, s.Close())

	out, err := run(t, dir, "report", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "Ali")

	out, err = run(t, dir, "report", "--month", "2024-03", "--student", "S1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ali")

	_, err = run(t, dir, "report", "--month", "March")
	assert.Error(t, err)

	_, err = run(t, dir, "report", "--student", "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
