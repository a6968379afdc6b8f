package store

// LatestVersion is the schema version this build reads and writes.
const LatestVersion = 6

// schemaVersionDDL tracks applied versions, one row per step.
const schemaVersionDDL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
)`

// studentsDDL is the current students table keyed by student_code.
const studentsDDL = `
CREATE TABLE students (
	student_code TEXT NOT NULL PRIMARY KEY,
	name         TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	gender       TEXT,
	birth_date   INTEGER,
	position     TEXT,
	iqro_volume  INTEGER,
	iqro_page    INTEGER,
	quran_surah  TEXT,
	quran_ayat   INTEGER
)`

// attendanceDDL is the current attendance table, one row per student per day.
const attendanceDDL = `
CREATE TABLE attendance (
	student_code TEXT NOT NULL REFERENCES students(student_code) ON DELETE CASCADE,
	date         INTEGER NOT NULL,
	is_present   INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	iqro_volume  INTEGER,
	iqro_page    INTEGER,
	quran_surah  TEXT,
	quran_ayat   INTEGER,
	is_passed    INTEGER,
	note         TEXT,
	PRIMARY KEY (student_code, date)
)`

const attendanceIndexDDL = `
CREATE INDEX idx_attendance_student_code ON attendance(student_code)`

// Version 1 shapes, keyed by an auto-incremented numeric id.

const studentsV1DDL = `
CREATE TABLE students (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

const attendanceV1DDL = `
CREATE TABLE attendance (
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	date       INTEGER NOT NULL,
	is_present INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (student_id, date)
)`

const attendanceV1IndexDDL = `
CREATE INDEX idx_attendance_student_id ON attendance(student_id)`

// studentColumns lists students columns in table order.
const studentColumns = `student_code, name, created_at, gender, birth_date,
	position, iqro_volume, iqro_page, quran_surah, quran_ayat`

// attendanceColumns lists attendance columns in table order.
const attendanceColumns = `student_code, date, is_present, created_at,
	iqro_volume, iqro_page, quran_surah, quran_ayat, is_passed, note`
