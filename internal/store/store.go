package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Attempts returns the attempt repository backed by this store.
func (s *Store) Attempts() *AttemptRepo { return &AttemptRepo{db: s.db} }

// Sessions returns the session repository backed by this store.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{db: s.db} }

// Skills returns the skill repository backed by this store.
func (s *Store) Skills() *SkillRepo { return &SkillRepo{db: s.db} }

// Notes returns the note repository backed by this store.
func (s *Store) Notes() *NoteRepo { return &NoteRepo{db: s.db} }

// LLMEvents returns the LLM event repository backed by this store.
func (s *Store) LLMEvents() *LLMEventRepo { return &LLMEventRepo{db: s.db} }

// applyPragmas configures SQLite for reliable concurrent use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. All statements are idempotent.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS skills (
			id             TEXT NOT NULL,
			student_id     TEXT NOT NULL,
			domain         TEXT NOT NULL,
			mastery        REAL NOT NULL DEFAULT 0,
			total_attempts INTEGER NOT NULL DEFAULT 0,
			last_seen      TEXT,
			PRIMARY KEY (student_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id   TEXT NOT NULL,
			session_id   TEXT NOT NULL,
			skill_id     TEXT NOT NULL,
			correctness  TEXT NOT NULL,
			confidence   TEXT NOT NULL,
			reasoning    REAL,
			time_secs    REAL,
			answer_style TEXT NOT NULL,
			timestamp    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS attempts_skill ON attempts (skill_id, id)`,
		`CREATE INDEX IF NOT EXISTS attempts_session ON attempts (session_id, id)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id                  TEXT PRIMARY KEY,
			student_id          TEXT NOT NULL,
			skill_id            TEXT NOT NULL,
			mastery_delta       REAL NOT NULL,
			questions_attempted INTEGER NOT NULL,
			questions_correct   INTEGER NOT NULL,
			avg_reasoning       REAL NOT NULL,
			attention           TEXT NOT NULL,
			timestamp           TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_student ON sessions (student_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id         TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			text       TEXT NOT NULL,
			skill_id   TEXT NOT NULL DEFAULT '',
			session_id TEXT NOT NULL DEFAULT '',
			note_type  TEXT NOT NULL,
			priority   TEXT NOT NULL,
			actionable INTEGER NOT NULL DEFAULT 0,
			dedup_key  TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS notes_dedup ON notes (dedup_key)
			WHERE dedup_key IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS notes_student ON notes (student_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS llm_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			provider      TEXT NOT NULL,
			model         TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    INTEGER NOT NULL DEFAULT 0,
			success       INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			timestamp     TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. TUTORBRAIN_DB environment variable
// 2. $XDG_DATA_HOME/tutorbrain/tutorbrain.db
// 3. ~/.local/share/tutorbrain/tutorbrain.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TUTORBRAIN_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "tutorbrain", "tutorbrain.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
