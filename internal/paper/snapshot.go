package paper

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SnapshotWriter persists stopped-session snapshots as JSON artifacts under
// <outputDir>/<date>/session_<id>.json. The core never re-reads these files;
// admin tooling does.
type SnapshotWriter struct {
	outputDir string
}

// NewSnapshotWriter creates a writer rooted at outputDir. The date directory
// is chosen per write so long-lived processes roll over at midnight.
func NewSnapshotWriter(outputDir string) *SnapshotWriter {
	return &SnapshotWriter{outputDir: outputDir}
}

// OutputDir returns the configured root directory.
func (w *SnapshotWriter) OutputDir() string {
	return w.outputDir
}

// Write serializes the session to its snapshot file.
func (w *SnapshotWriter) Write(session *Session) error {
	dir := filepath.Join(w.outputDir, time.Now().UTC().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("session_%s.json", session.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshots loads every session snapshot found under dir, newest start
// time first. Unreadable or malformed files are skipped, not fatal.
func ReadSnapshots(dir string) ([]*Session, error) {
	var sessions []*Session
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		var s Session
		if json.Unmarshal(data, &s) != nil || s.ID == "" {
			return nil
		}
		sessions = append(sessions, &s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot directory %s: %w", dir, err)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}
