package store

import "errors"

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSchemaTooNew is returned when the database was written by a newer
	// version of the application.
	ErrSchemaTooNew = errors.New("database schema is newer than this build")

	// ErrMigrationGap is returned when the migration chain does not cover
	// every version up to LatestVersion.
	ErrMigrationGap = errors.New("migration chain has a gap")

	// ErrOrphanedAttendance is returned when an attendance row references a
	// student that does not exist while re-keying.
	ErrOrphanedAttendance = errors.New("attendance references a missing student")

	// ErrClosed is returned by a Handle after Close.
	ErrClosed = errors.New("store handle closed")
)
