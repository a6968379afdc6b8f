package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/tpq-attendance/internal/logger"
)

// pragmas are applied to every connection through the DSN.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db      *sqlx.DB
	log     logger.Logger
	path    string
	changes *broadcaster
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used for migrations and background work.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteStore) { s.log = l }
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables
// foreign keys and WAL mode, and runs any pending schema migrations. The
// store is not returned until the schema is at LatestVersion.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		log:     logger.Nop(),
		path:    dbPath,
		changes: newBroadcaster(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases
	// to one instance.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", dbPath, err)
	}

	s.db = db
	if err := runMigrations(context.Background(), db, s.log); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.log.Info("store opened", "path", dbPath, "version", LatestVersion)
	return s, nil
}

// dsn appends the connection pragmas to path.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	q.Set("_txlock", "immediate")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file the store was opened on.
func (s *SQLiteStore) Path() string {
	return s.path
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
