package testutil

import (
	"path/filepath"
	"testing"

	"github.com/nhle/tpq-attendance/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore at the latest schema.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	return open(t, ":memory:")
}

// NewFileStore creates a SQLiteStore backed by a file in a temporary
// directory, for tests that reopen the database or need a real path.
func NewFileStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	return open(t, filepath.Join(t.TempDir(), "tpq.db"))
}

func open(t *testing.T, path string) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
