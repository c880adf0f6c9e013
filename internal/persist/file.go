// Package persist stores and loads whole-document snapshots: a JSON
// file for explicit save/open, and a sqlite archive keeping a bounded
// autosave history.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tgienger/taskgraph/internal/document"
)

// Save atomically writes the document snapshot as JSON to path: the
// data goes to a temp file first and is renamed into place.
func Save(path string, doc *document.Document) error {
	data, err := json.MarshalIndent(doc.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("persist: marshalling snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("persist: creating directories: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("persist: writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("persist: renaming temp file: %w", err)
	}
	return nil
}

// Load reads a snapshot from path and replaces the whole document with
// it. The caller must invalidate every derived view and clear undo
// history afterwards. A file with corrupt JSON is backed up beside the
// original before the error is returned.
func Load(path string, doc *document.Document) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("persist: reading %s: %w", path, err)
	}
	var snap document.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return fmt.Errorf("persist: corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	doc.Restore(snap)
	return nil
}
