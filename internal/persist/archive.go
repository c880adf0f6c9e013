package persist

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tgienger/taskgraph/internal/document"
)

//go:embed schema.sql
var schema string

// Archive keeps a rolling history of document snapshots in sqlite, used
// for autosave and crash recovery. Each row is one whole-document JSON
// blob; Prune keeps the history bounded.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (or creates) the snapshot archive at dbPath and
// initializes its schema. Use ":memory:" for a throwaway archive.
func OpenArchive(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("persist: opening archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: initializing archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// DefaultArchivePath returns the archive location under the XDG data
// directory, falling back to ~/.local/share.
func DefaultArchivePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "archive.db"), nil
}

// DefaultFilePath returns the default document location beside the
// archive.
func DefaultFilePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tasks.json"), nil
}

func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(base, "taskgraph")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error { return a.db.Close() }

// SaveSnapshot appends the document's current snapshot under a label.
func (a *Archive) SaveSnapshot(doc *document.Document, label string) error {
	data, err := json.Marshal(doc.Snapshot())
	if err != nil {
		return fmt.Errorf("persist: marshalling snapshot: %w", err)
	}
	if _, err := a.db.Exec(`INSERT INTO snapshots (label, data) VALUES (?, ?)`, label, data); err != nil {
		return fmt.Errorf("persist: archiving snapshot: %w", err)
	}
	return nil
}

// LoadLatest restores the most recently archived snapshot into doc. It
// reports false without touching doc when the archive is empty.
func (a *Archive) LoadLatest(doc *document.Document) (bool, error) {
	var data []byte
	err := a.db.QueryRow(`SELECT data FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("persist: reading latest snapshot: %w", err)
	}
	var snap document.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false, fmt.Errorf("persist: corrupt archived snapshot: %w", err)
	}
	doc.Restore(snap)
	return true, nil
}

// Count returns the number of archived snapshots.
func (a *Archive) Count() (int, error) {
	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("persist: counting snapshots: %w", err)
	}
	return n, nil
}

// Prune drops all but the keep most recent snapshots.
func (a *Archive) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := a.db.Exec(`
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("persist: pruning snapshots: %w", err)
	}
	return nil
}
