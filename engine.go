package deskkit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EngineOption func(*Engine)

func WithEvents(ev Events) EngineOption {
	return func(e *Engine) { e.events = ev }
}

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// Engine renames batches of files and undoes them. It is the only writer of
// the journal; Rename, Undo and Clear are serialized within the process.
type Engine struct {
	mu       sync.Mutex
	store    Store
	events   Events
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
	progress ProgressUpdate
}

func NewEngine(store Store, opts ...EngineOption) *Engine {
	e := &Engine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.events == nil {
		e.events = LogEvents(e.logger)
	}
	return e
}

func (e *Engine) SetProgressCallback(cb ProgressUpdate) { e.progress = cb }

func (e *Engine) reportProgress(current, total int) {
	if e.progress != nil {
		e.progress(current, total)
	}
}

// TargetName is the name a file gets at 1-based position seq.
func TargetName(prefix string, seq int, original string) string {
	return fmt.Sprintf("%s_%03d%s", prefix, seq, extOf(original))
}

// Rename gives every regular file in dir the name prefix_NNN.ext, in name
// order. Files whose target already exists are skipped; per-file errors do
// not stop the batch. A session is recorded only if something was renamed.
func (e *Engine) Rename(dir, prefix string) (RenameResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := RenameResult{Directory: dir, Prefix: prefix}
	dir, err := absDir(dir)
	if err != nil {
		return res, err
	}
	res.Directory = dir

	if strings.TrimSpace(prefix) == "" {
		return res, fmt.Errorf("%w: prefix must not be empty", ErrInvalidConfig)
	}
	if strings.ContainsRune(prefix, '/') || strings.ContainsRune(prefix, filepath.Separator) {
		return res, fmt.Errorf("%w: prefix %q contains a path separator", ErrInvalidConfig, prefix)
	}
	if err := requireDir(dir); err != nil {
		return res, err
	}

	files, err := listRegularFiles(dir)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		res.Outcome = OutcomeNoFiles
		return res, nil
	}

	session := Session{
		ID:        uuid.NewString(),
		Timestamp: Timestamp{e.now()},
		Directory: dir,
		Prefix:    prefix,
	}

	for i, name := range files {
		newName := TargetName(prefix, i+1, name)
		oldPath := filepath.Join(dir, name)
		newPath := filepath.Join(dir, newName)

		if oldPath != newPath && pathExists(newPath) {
			skipErr := fmt.Errorf("%w: %s", ErrTargetExists, newName)
			res.Skipped = append(res.Skipped, Skip{OldName: name, NewName: newName, Reason: skipErr})
			e.events.OnSkipped(name, newName, skipErr)
			e.metrics.skipped()
			e.reportProgress(i+1, len(files))
			continue
		}

		if err := os.Rename(oldPath, newPath); err != nil {
			res.Failed = append(res.Failed, FileFailure{Name: name, Err: err})
			e.events.OnError(name, err)
			e.metrics.failed("rename")
			e.reportProgress(i+1, len(files))
			continue
		}

		op := Operation{OldName: name, NewName: newName, OldPath: oldPath, NewPath: newPath}
		session.Operations = append(session.Operations, op)
		e.events.OnRenamed(op)
		e.metrics.renamed()
		e.reportProgress(i+1, len(files))
	}

	if len(session.Operations) == 0 {
		res.Outcome = OutcomeNothingRenamed
		return res, nil
	}

	j := e.store.Load()
	j.Append(session)
	res.Persisted = e.store.Save(j) == nil
	res.Outcome = OutcomeRenamed
	res.Session = &session

	e.logger.Debug("rename session recorded",
		"directory", dir, "prefix", prefix, "renamed", len(session.Operations),
		"skipped", len(res.Skipped), "failed", len(res.Failed))
	return res, nil
}

// Undo replays the selected session backwards. The session leaves the
// journal only when every operation was reversed.
func (e *Engine) Undo(sel Selector) (UndoResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	j := e.store.Load()
	idx, err := sel.resolve(j)
	if err != nil {
		return UndoResult{Index: -1}, err
	}

	session := j.Sessions[idx]
	res := UndoResult{Index: idx, Session: session}
	if !isDir(session.Directory) {
		return res, fmt.Errorf("%w: %s", ErrDirectoryGone, session.Directory)
	}

	ops := session.Operations
	for i, op := range slices.Backward(ops) {
		if err := restore(session.Directory, op); err != nil {
			res.Failed = append(res.Failed, OperationFailure{Operation: op, Err: err})
			e.events.OnError(op.NewName, err)
			e.metrics.failed("undo")
		} else {
			res.Restored = append(res.Restored, op)
			e.events.OnRestored(op)
			e.metrics.restored()
		}
		e.reportProgress(len(ops)-i, len(ops))
	}

	if len(res.Failed) == 0 {
		j.Remove(idx)
		res.Persisted = e.store.Save(j) == nil
	}

	e.logger.Debug("undo finished",
		"session", idx, "directory", session.Directory,
		"restored", len(res.Restored), "failed", len(res.Failed), "status", res.Status())
	return res, nil
}

func restore(dir string, op Operation) error {
	current := filepath.Join(dir, op.NewName)
	target := filepath.Join(dir, op.OldName)

	if !pathExists(current) {
		return fmt.Errorf("%w: %s", ErrNotFound, op.NewName)
	}
	if current != target && pathExists(target) {
		return fmt.Errorf("%w: %s", ErrTargetExists, op.OldName)
	}
	return os.Rename(current, target)
}

// List summarizes the journal in insertion order.
func (e *Engine) List() []SessionSummary {
	j := e.store.Load()
	out := make([]SessionSummary, 0, j.Len())
	for i, s := range j.Sessions {
		out = append(out, s.Summary(i))
	}
	return out
}

// Session returns a copy of the selected session.
func (e *Engine) Session(sel Selector) (Session, int, error) {
	j := e.store.Load()
	idx, err := sel.resolve(j)
	if err != nil {
		return Session{}, -1, err
	}
	return j.Sessions[idx], idx, nil
}

// Clear forgets every session and deletes the journal document. Files on
// disk keep their current names.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Remove()
}
