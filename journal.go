package deskkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultJournalPath = "rename_history.json"

// Operation is one completed rename inside a session.
type Operation struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// Session is one batch-rename invocation. Operations are kept in the order
// the files were processed.
type Session struct {
	ID         string      `json:"id,omitempty"`
	Timestamp  Timestamp   `json:"timestamp"`
	Directory  string      `json:"directory"`
	Prefix     string      `json:"prefix"`
	Operations []Operation `json:"operations"`
}

// Journal is the chronological list of sessions. A session's index is its
// position and shifts when an earlier session is removed.
type Journal struct {
	Sessions []Session
}

func (j Journal) Len() int { return len(j.Sessions) }

func (j *Journal) Append(s Session) { j.Sessions = append(j.Sessions, s) }

func (j *Journal) Remove(idx int) {
	j.Sessions = append(j.Sessions[:idx:idx], j.Sessions[idx+1:]...)
}

type SessionSummary struct {
	Index     int
	ID        string
	Timestamp time.Time
	Directory string
	Prefix    string
	Count     int
}

func (s Session) Summary(idx int) SessionSummary {
	return SessionSummary{
		Index:     idx,
		ID:        s.ID,
		Timestamp: s.Timestamp.Time,
		Directory: s.Directory,
		Prefix:    s.Prefix,
		Count:     len(s.Operations),
	}
}

// Timestamp reads both RFC3339 and the zone-less ISO-8601 form written by
// older history files, and always writes RFC3339Nano.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// Store persists the whole journal as one document.
type Store interface {
	Load() Journal
	Save(j Journal) error
	Remove() error
}

// FileStore keeps the journal as a JSON array at a fixed path. There is no
// locking between processes: the last writer wins.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if path == "" {
		path = DefaultJournalPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Path() string { return s.path }

// Load never fails: a missing document is an empty journal, and an
// unreadable one is logged and discarded.
func (s *FileStore) Load() Journal {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not read rename history", "path", s.path, "error", err)
		}
		return Journal{}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return Journal{}
	}

	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		s.logger.Warn("could not load rename history", "path", s.path, "error", err)
		return Journal{}
	}
	return Journal{Sessions: sessions}
}

// Save rewrites the document through a temp file so a failed write leaves
// the previous document in place.
func (s *FileStore) Save(j Journal) error {
	sessions := j.Sessions
	if sessions == nil {
		sessions = []Session{}
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return s.saveFailed(err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return s.saveFailed(err)
	}

	tmp, err := os.CreateTemp(dir, ".rename_history-*.tmp")
	if err != nil {
		return s.saveFailed(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return s.saveFailed(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return s.saveFailed(err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return s.saveFailed(err)
	}
	return nil
}

func (s *FileStore) saveFailed(err error) error {
	s.logger.Warn("could not save rename history", "path", s.path, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, s.path, err)
}

func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("could not delete rename history", "path", s.path, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrPersistence, s.path, err)
	}
	return nil
}
