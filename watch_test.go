package deskkit

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchJournalSeesSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rename_history.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	require.NoError(t, WatchJournal(ctx, path, discardLogger(), func() { changes.Add(1) }))

	// Unrelated files in the same folder are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	time.Sleep(3 * watchDebounce)
	assert.Zero(t, changes.Load())

	store := NewFileStore(path, discardLogger())
	require.NoError(t, store.Save(Journal{Sessions: []Session{sampleSession(dir)}}))

	assert.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatchJournalMissingDirectory(t *testing.T) {
	err := WatchJournal(context.Background(), filepath.Join(t.TempDir(), "gone", "h.json"), discardLogger(), func() {})
	assert.Error(t, err)
}
