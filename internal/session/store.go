// Package session provides durable cross-step persistence of the in-progress
// workflow state: the company profile draft, the service-issued session
// identifier, and the last-known teaser identifier. State lives in a local
// SQLite database so separate invocations of the tool observe the same
// session until it is explicitly cleared.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/thomas/teaser-agent/internal/types"
)

// DefaultDBName is the state database filename used when no path is configured.
const DefaultDBName = "teaser-agent.db"

const schema = `
CREATE TABLE IF NOT EXISTS session_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store keys. The layout is a flat key/value map so any step can read or
// write its slice of state without knowing about the others.
const (
	keyProfile      = "companyProfile"
	keySessionID    = "session_id"
	keyLastTeaserID = "last_teaser_id"
	keyTeaser       = "last_teaser"
)

// Store is the SQLite-backed session state store.
type Store struct {
	db   *sql.DB
	path string
}

// Snapshot is the current persisted state. Missing fields default to their
// zero values.
type Snapshot struct {
	Profile      types.CompanyProfile
	SessionID    string
	LastTeaserID string
	// Teaser is the last-saved server copy of the document, kept so the
	// editor can rehydrate after a navigation instead of trusting stale
	// in-memory state.
	Teaser types.TeaserDocument
}

// Patch is a partial update; only non-nil fields are written. Writers merge,
// never replace, so one step cannot clobber fields owned by another.
type Patch struct {
	Profile      *types.CompanyProfile
	SessionID    *string
	LastTeaserID *string
	Teaser       *types.TeaserDocument
}

// DefaultPath returns the state database path next to the binary.
func DefaultPath() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(execPath), DefaultDBName), nil
}

// Open opens or creates the session store at the given path. An empty path
// uses DefaultPath.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize session schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current state snapshot. A missing key defaults to its zero
// value, and a profile that fails to decode is treated as absent rather than
// failing the read.
func (s *Store) Get() (Snapshot, error) {
	rows, err := s.db.Query("SELECT key, value FROM session_state")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read session state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snap Snapshot
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan session state: %w", err)
		}
		switch key {
		case keyProfile:
			var profile types.CompanyProfile
			if err := json.Unmarshal([]byte(value), &profile); err == nil {
				snap.Profile = profile
			}
		case keySessionID:
			snap.SessionID = value
		case keyLastTeaserID:
			snap.LastTeaserID = value
		case keyTeaser:
			var doc types.TeaserDocument
			if err := json.Unmarshal([]byte(value), &doc); err == nil {
				snap.Teaser = doc
			}
		}
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read session state: %w", err)
	}
	return snap, nil
}

// Put merges the patch into the persisted state. All writes happen in one
// transaction, so a later Get never observes a torn update.
func (s *Store) Put(patch Patch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin session write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if patch.Profile != nil {
		encoded, err := json.Marshal(patch.Profile)
		if err != nil {
			return fmt.Errorf("failed to encode company profile: %w", err)
		}
		if err := upsert(tx, keyProfile, string(encoded)); err != nil {
			return err
		}
	}
	if patch.SessionID != nil {
		if err := upsert(tx, keySessionID, *patch.SessionID); err != nil {
			return err
		}
	}
	if patch.LastTeaserID != nil {
		if err := upsert(tx, keyLastTeaserID, *patch.LastTeaserID); err != nil {
			return err
		}
	}
	if patch.Teaser != nil {
		encoded, err := json.Marshal(patch.Teaser)
		if err != nil {
			return fmt.Errorf("failed to encode teaser document: %w", err)
		}
		if err := upsert(tx, keyTeaser, string(encoded)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session write: %w", err)
	}
	return nil
}

// Clear resets the store to defaults. Used only on explicit workflow restart.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM session_state"); err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func upsert(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(
		"INSERT INTO session_state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}
