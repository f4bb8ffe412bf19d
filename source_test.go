package deskkit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstLine(t *testing.T) {
	line, err := firstLine(strings.NewReader("\n  \n  /home/me/pics  \nsecond\n"))
	require.NoError(t, err)
	assert.Equal(t, "/home/me/pics", line)

	_, err = firstLine(strings.NewReader(" \n\n"))
	assert.Error(t, err)
}

func TestDirSourceFallsBackToClipboard(t *testing.T) {
	s := &DirSource{clipboard: func() (string, error) { return "~/Downloads\n", nil }}
	dir, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "~/Downloads", dir)

	boom := errors.New("no clipboard utility")
	s = &DirSource{clipboard: func() (string, error) { return "", boom }}
	_, err = s.Get()
	assert.ErrorIs(t, err, boom)
}

func TestDirSourceReadsPipedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte("/srv/files\n"), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s := &DirSource{stdin: f, clipboard: func() (string, error) {
		t.Fatal("clipboard should not be read")
		return "", nil
	}}
	dir, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "/srv/files", dir)
}

func TestPathResolver(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	r := &PathResolver{wd: "/work"}

	assert.Equal(t, "/abs/dir", r.Resolve("/abs/dir"))
	assert.Equal(t, filepath.Join("/work", "rel"), r.Resolve("  rel "))
	assert.Equal(t, filepath.Join(home, "pics"), r.Resolve("~/pics"))
}
