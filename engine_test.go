package deskkit

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recorder struct {
	renamed  []Operation
	restored []Operation
	skipped  []string
	errors   []string
}

func (r *recorder) events() EventFuncs {
	return EventFuncs{
		Renamed:  func(op Operation) { r.renamed = append(r.renamed, op) },
		Restored: func(op Operation) { r.restored = append(r.restored, op) },
		Skipped:  func(oldName, _ string, _ error) { r.skipped = append(r.skipped, oldName) },
		Error:    func(name string, _ error) { r.errors = append(r.errors, name) },
	}
}

func newTestEngine(t *testing.T) (*Engine, *FileStore, *recorder) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "rename_history.json"), discardLogger())
	rec := &recorder{}
	e := NewEngine(store, WithEvents(rec.events()), WithLogger(discardLogger()))
	return e, store, rec
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0644))
	}
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestTargetName(t *testing.T) {
	tests := []struct {
		prefix, original string
		seq              int
		want             string
	}{
		{"x", "a.txt", 1, "x_001.txt"},
		{"x", "archive.tar.gz", 12, "x_012.gz"},
		{"x", "README", 3, "x_003"},
		{"x", ".bashrc", 4, "x_004"},
		{"trip", "IMG.JPG", 1000, "trip_1000.JPG"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TargetName(tt.prefix, tt.seq, tt.original), tt.original)
	}
}

func TestRenameThenUndoRestoresEverything(t *testing.T) {
	e, store, rec := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "b.jpg", "a.txt", "c", ".hidden")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	res, err := e.Rename(dir, "x")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRenamed, res.Outcome)
	assert.True(t, res.Persisted)
	require.NotNil(t, res.Session)
	assert.Equal(t, 4, res.Renamed())
	assert.NotEmpty(t, res.Session.ID)

	assert.Equal(t, []string{"sub", "x_001", "x_002.txt", "x_003.jpg", "x_004"}, dirNames(t, dir))
	assert.Len(t, rec.renamed, 4)
	assert.Equal(t, 1, store.Load().Len())

	op := res.Session.Operations[1]
	assert.Equal(t, "a.txt", op.OldName)
	assert.Equal(t, "x_002.txt", op.NewName)
	assert.Equal(t, filepath.Join(dir, "a.txt"), op.OldPath)
	assert.Equal(t, filepath.Join(dir, "x_002.txt"), op.NewPath)

	undo, err := e.Undo(MostRecent())
	require.NoError(t, err)
	assert.Equal(t, UndoComplete, undo.Status())
	assert.Len(t, undo.Restored, 4)
	assert.True(t, undo.Persisted)

	assert.Equal(t, []string{".hidden", "a.txt", "b.jpg", "c", "sub"}, dirNames(t, dir))
	assert.Equal(t, 0, store.Load().Len())
}

func TestUndoReplaysInReverseOrder(t *testing.T) {
	e, _, rec := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a", "b", "c")

	_, err := e.Rename(dir, "p")
	require.NoError(t, err)
	_, err = e.Undo(MostRecent())
	require.NoError(t, err)

	var order []string
	for _, op := range rec.restored {
		order = append(order, op.OldName)
	}
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestRenameSkipsTakenTarget(t *testing.T) {
	e, store, rec := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "x_001.txt")

	res, err := e.Rename(dir, "x")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRenamed, res.Outcome)
	require.Len(t, res.Session.Operations, 1)
	assert.Equal(t, "x_001.txt", res.Session.Operations[0].OldName)
	assert.Equal(t, "x_002.txt", res.Session.Operations[0].NewName)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "a.txt", res.Skipped[0].OldName)
	assert.ErrorIs(t, res.Skipped[0].Reason, ErrTargetExists)
	assert.Equal(t, []string{"a.txt"}, rec.skipped)

	assert.Equal(t, []string{"a.txt", "x_002.txt"}, dirNames(t, dir))
	assert.Len(t, store.Load().Sessions[0].Operations, 1)
}

func TestRenameKeepsFileAlreadyAtTarget(t *testing.T) {
	e, _, _ := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "x_001.txt")

	res, err := e.Rename(dir, "x")
	require.NoError(t, err)
	require.Len(t, res.Session.Operations, 1)
	assert.Equal(t, "x_001.txt", res.Session.Operations[0].NewName)
	assert.Empty(t, res.Skipped)

	undo, err := e.Undo(MostRecent())
	require.NoError(t, err)
	assert.Equal(t, UndoComplete, undo.Status())
	assert.Equal(t, []string{"x_001.txt"}, dirNames(t, dir))
}

func TestRenameEmptyDirectory(t *testing.T) {
	e, store, _ := newTestEngine(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "only-a-folder"), 0755))

	res, err := e.Rename(dir, "x")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoFiles, res.Outcome)
	assert.Nil(t, res.Session)
	assert.Equal(t, 0, store.Load().Len())
	assert.NoFileExists(t, store.Path())
}

func TestRenameNothingRenamedLeavesJournal(t *testing.T) {
	e, store, _ := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "x_001.txt"), 0755))

	res, err := e.Rename(dir, "x")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingRenamed, res.Outcome)
	assert.Len(t, res.Skipped, 1)
	assert.Nil(t, res.Session)
	assert.NoFileExists(t, store.Path())
}

func TestRenameMissingDirectory(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Rename(filepath.Join(t.TempDir(), "nope"), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameRejectsBadPrefix(t *testing.T) {
	e, _, _ := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")

	_, err := e.Rename(dir, "  ")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = e.Rename(dir, "../up")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, []string{"a.txt"}, dirNames(t, dir))
}

func TestRenameSurvivesPersistenceFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	store := NewFileStore(filepath.Join(blocker, "history.json"), discardLogger())
	e := NewEngine(store, WithEvents(EventFuncs{}), WithLogger(discardLogger()))

	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")

	res, err := e.Rename(dir, "x")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRenamed, res.Outcome)
	assert.False(t, res.Persisted)
	assert.Equal(t, []string{"x_001.txt"}, dirNames(t, dir))
}

func TestPartialUndoKeepsSession(t *testing.T) {
	e, store, _ := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt", "c.txt")

	_, err := e.Rename(dir, "x")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "x_002.txt")))

	res, err := e.Undo(MostRecent())
	require.NoError(t, err)
	assert.Equal(t, UndoPartial, res.Status())
	assert.Len(t, res.Restored, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "b.txt", res.Failed[0].Operation.OldName)
	assert.ErrorIs(t, res.Failed[0].Err, ErrNotFound)

	assert.Equal(t, []string{"a.txt", "c.txt"}, dirNames(t, dir))
	j := store.Load()
	require.Equal(t, 1, j.Len())
	assert.Len(t, j.Sessions[0].Operations, 3)
}

func TestUndoRefusesToOverwrite(t *testing.T) {
	e, store, _ := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")

	_, err := e.Rename(dir, "x")
	require.NoError(t, err)
	writeFiles(t, dir, "a.txt")

	res, err := e.Undo(MostRecent())
	require.NoError(t, err)
	assert.Equal(t, UndoFailed, res.Status())
	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed[0].Err, ErrTargetExists)
	assert.Equal(t, 1, store.Load().Len())
	assert.Equal(t, []string{"a.txt", "x_001.txt"}, dirNames(t, dir))
}

func TestUndoDirectoryGone(t *testing.T) {
	e, store, _ := newTestEngine(t)
	dir := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeFiles(t, dir, "a.txt")

	_, err := e.Rename(dir, "x")
	require.NoError(t, err)
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, err = e.Undo(MostRecent())
	assert.ErrorIs(t, err, ErrDirectoryGone)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUndoInvalidSelector(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Undo(MostRecent())
	assert.ErrorIs(t, err, ErrInvalidSelector)

	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	_, err = e.Rename(dir, "x")
	require.NoError(t, err)

	for _, sel := range []Selector{SelectIndex(1), SelectIndex(-1), SelectByID("missing")} {
		_, err = e.Undo(sel)
		assert.ErrorIs(t, err, ErrInvalidSelector, sel.String())
	}
}

func TestUndoByIndexShiftsLaterSessions(t *testing.T) {
	e, _, _ := newTestEngine(t)
	first, second := t.TempDir(), t.TempDir()
	writeFiles(t, first, "a.txt")
	writeFiles(t, second, "b.txt")

	_, err := e.Rename(first, "one")
	require.NoError(t, err)
	r2, err := e.Rename(second, "two")
	require.NoError(t, err)

	_, err = e.Undo(SelectIndex(0))
	require.NoError(t, err)

	list := e.List()
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Index)
	assert.Equal(t, second, list[0].Directory)
	assert.Equal(t, r2.Session.ID, list[0].ID)

	_, err = e.Undo(SelectIndex(1))
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestUndoByID(t *testing.T) {
	e, _, _ := newTestEngine(t)
	first, second := t.TempDir(), t.TempDir()
	writeFiles(t, first, "a.txt")
	writeFiles(t, second, "b.txt")

	r1, err := e.Rename(first, "one")
	require.NoError(t, err)
	_, err = e.Rename(second, "two")
	require.NoError(t, err)

	res, err := e.Undo(SelectByID(r1.Session.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, []string{"a.txt"}, dirNames(t, first))
	assert.Equal(t, []string{"two_001.txt"}, dirNames(t, second))
}

func TestListSummaries(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "h.json"), discardLogger())
	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	e := NewEngine(store, WithEvents(EventFuncs{}), WithLogger(discardLogger()),
		WithClock(func() time.Time { return when }))

	dir := t.TempDir()
	writeFiles(t, dir, "a", "b")
	_, err := e.Rename(dir, "p")
	require.NoError(t, err)

	list := e.List()
	require.Len(t, list, 1)
	assert.Equal(t, dir, list[0].Directory)
	assert.Equal(t, "p", list[0].Prefix)
	assert.Equal(t, 2, list[0].Count)
	assert.True(t, when.Equal(list[0].Timestamp))
}

func TestClearDeletesJournal(t *testing.T) {
	e, store, _ := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")

	_, err := e.Rename(dir, "x")
	require.NoError(t, err)
	require.FileExists(t, store.Path())

	require.NoError(t, e.Clear())
	assert.NoFileExists(t, store.Path())
	assert.Empty(t, e.List())
	assert.Equal(t, []string{"x_001.txt"}, dirNames(t, dir))

	require.NoError(t, e.Clear())
}

func TestProgressCallback(t *testing.T) {
	e, _, _ := newTestEngine(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a", "b", "c")

	var seen [][2]int
	e.SetProgressCallback(func(cur, total int) { seen = append(seen, [2]int{cur, total}) })

	_, err := e.Rename(dir, "p")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, seen)
}

type flakyStore struct {
	Store
	failSaves bool
}

func (s *flakyStore) Save(j Journal) error {
	if s.failSaves {
		return ErrPersistence
	}
	return s.Store.Save(j)
}

func TestUndoSurvivesPersistenceFailure(t *testing.T) {
	store := &flakyStore{Store: NewFileStore(filepath.Join(t.TempDir(), "h.json"), discardLogger())}
	e := NewEngine(store, WithEvents(EventFuncs{}), WithLogger(discardLogger()))

	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt")
	_, err := e.Rename(dir, "x")
	require.NoError(t, err)

	store.failSaves = true
	res, err := e.Undo(MostRecent())
	require.NoError(t, err)
	assert.Equal(t, UndoComplete, res.Status())
	assert.False(t, res.Persisted)
	assert.Len(t, res.Restored, 2)
	assert.Equal(t, []string{"a.txt", "b.txt"}, dirNames(t, dir))

	// The document on disk still lists the session.
	assert.Equal(t, 1, store.Load().Len())
}

func TestRenameRecordsAbsoluteDirectory(t *testing.T) {
	e, store, _ := newTestEngine(t)
	parent := t.TempDir()
	dir := filepath.Join(parent, "photos")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeFiles(t, dir, "a.txt")

	t.Chdir(parent)
	res, err := e.Rename("photos", "x")
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.True(t, filepath.IsAbs(res.Session.Directory))
	assert.True(t, filepath.IsAbs(res.Directory))
	assert.True(t, filepath.IsAbs(store.Load().Sessions[0].Directory))

	// Undo works from any working directory.
	t.Chdir(t.TempDir())
	undo, err := e.Undo(MostRecent())
	require.NoError(t, err)
	assert.Equal(t, UndoComplete, undo.Status())
	assert.Equal(t, []string{"a.txt"}, dirNames(t, dir))
}
