// Package session provides SQLite-backed journaling of learning
// sessions: per-iteration scores, phase transitions, locks, and the
// best vector. The optimizer core never touches this; journaling is
// caller-side infrastructure used by the command binaries.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for session journaling.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a journal database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		status TEXT NOT NULL,
		target_json TEXT NOT NULL,
		best_score REAL NOT NULL DEFAULT -1,
		best_morphs_json TEXT
	);

	CREATE TABLE IF NOT EXISTS iterations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		iter INTEGER NOT NULL,
		main_phase TEXT NOT NULL,
		sub_phase TEXT NOT NULL,
		opt_phase TEXT NOT NULL,
		sub_score REAL NOT NULL,
		total REAL NOT NULL,
		action TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS locks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		sub_phase TEXT NOT NULL,
		iter INTEGER NOT NULL,
		best_score REAL NOT NULL,
		variation REAL NOT NULL,
		morphs_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_iterations_session ON iterations(session_id, iter);
	CREATE INDEX IF NOT EXISTS idx_locks_session ON locks(session_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Session is one recorded learning run.
type Session struct {
	ID             string  `db:"id"`
	Seed           int64   `db:"seed"`
	CreatedAt      string  `db:"created_at"`
	Status         string  `db:"status"`
	TargetJSON     string  `db:"target_json"`
	BestScore      float64 `db:"best_score"`
	BestMorphsJSON *string `db:"best_morphs_json"`
}

// Iteration is one recorded optimizer step.
type Iteration struct {
	ID        int64   `db:"id"`
	SessionID string  `db:"session_id"`
	Iter      int     `db:"iter"`
	MainPhase string  `db:"main_phase"`
	SubPhase  string  `db:"sub_phase"`
	OptPhase  string  `db:"opt_phase"`
	SubScore  float64 `db:"sub_score"`
	Total     float64 `db:"total"`
	Action    string  `db:"action"`
}

// LockRecord is one sub-phase completion.
type LockRecord struct {
	ID         int64   `db:"id"`
	SessionID  string  `db:"session_id"`
	SubPhase   string  `db:"sub_phase"`
	Iter       int     `db:"iter"`
	BestScore  float64 `db:"best_score"`
	Variation  float64 `db:"variation"`
	MorphsJSON string  `db:"morphs_json"`
}

// CreateSession records a new run and returns its ID.
func (db *DB) CreateSession(seed int64, target []float64) (string, error) {
	id := uuid.New().String()
	targetJSON, _ := json.Marshal(target)
	_, err := db.conn.Exec(
		`INSERT INTO sessions (id, seed, created_at, status, target_json)
		 VALUES (?, ?, ?, 'running', ?)`,
		id, seed, time.Now().UTC().Format(time.RFC3339), string(targetJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// RecordIteration appends one optimizer step.
func (db *DB) RecordIteration(it Iteration) error {
	_, err := db.conn.Exec(
		`INSERT INTO iterations
		 (session_id, iter, main_phase, sub_phase, opt_phase, sub_score, total, action)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		it.SessionID, it.Iter, it.MainPhase, it.SubPhase, it.OptPhase,
		it.SubScore, it.Total, it.Action,
	)
	if err != nil {
		return fmt.Errorf("insert iteration: %w", err)
	}
	return nil
}

// RecordLock appends a sub-phase completion.
func (db *DB) RecordLock(sessionID string, iter int, subPhase string, bestScore, variation float64, morphs []float64) error {
	morphsJSON, _ := json.Marshal(morphs)
	_, err := db.conn.Exec(
		`INSERT INTO locks (session_id, sub_phase, iter, best_score, variation, morphs_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, subPhase, iter, bestScore, variation, string(morphsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert lock: %w", err)
	}
	return nil
}

// FinishSession records the final outcome.
func (db *DB) FinishSession(sessionID, status string, bestScore float64, best []float64) error {
	bestJSON, _ := json.Marshal(best)
	_, err := db.conn.Exec(
		`UPDATE sessions SET status = ?, best_score = ?, best_morphs_json = ? WHERE id = ?`,
		status, bestScore, string(bestJSON), sessionID,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// Sessions lists recorded runs, newest first.
func (db *DB) Sessions() ([]Session, error) {
	var out []Session
	err := db.conn.Select(&out, `SELECT * FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	return out, nil
}

// Session loads one run by ID.
func (db *DB) Session(id string) (*Session, error) {
	var s Session
	if err := db.conn.Get(&s, `SELECT * FROM sessions WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("select session %s: %w", id, err)
	}
	return &s, nil
}

// Iterations loads a run's recorded steps in order.
func (db *DB) Iterations(sessionID string) ([]Iteration, error) {
	var out []Iteration
	err := db.conn.Select(&out,
		`SELECT * FROM iterations WHERE session_id = ? ORDER BY iter`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select iterations: %w", err)
	}
	return out, nil
}

// Locks loads a run's sub-phase completions in order.
func (db *DB) Locks(sessionID string) ([]LockRecord, error) {
	var out []LockRecord
	err := db.conn.Select(&out,
		`SELECT * FROM locks WHERE session_id = ? ORDER BY iter`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select locks: %w", err)
	}
	return out, nil
}

// BestMorphs decodes a session's stored best vector, or nil when the
// run never finished.
func (s *Session) BestMorphs() []float64 {
	if s.BestMorphsJSON == nil {
		return nil
	}
	var out []float64
	if err := json.Unmarshal([]byte(*s.BestMorphsJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetMeta stores a key/value pair in the journal metadata table.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO journal_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta reads a journal metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	if err := db.conn.Get(&value, `SELECT value FROM journal_meta WHERE key = ?`, key); err != nil {
		return "", fmt.Errorf("get meta %s: %w", key, err)
	}
	return value, nil
}
