package deskkit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultJournalPath, cfg.JournalPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
journal_path: /var/lib/deskkit/history.json
log:
  level: debug
  json: true
sysmon:
  disk_path: /home
  sample_interval: 500ms
metrics:
  addr: localhost:9190
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/deskkit/history.json", cfg.JournalPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "/home", cfg.Sysmon.DiskPath)
	assert.Equal(t, 500*time.Millisecond, cfg.Sysmon.SampleInterval)
	assert.Equal(t, "localhost:9190", cfg.Metrics.Addr)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultJournalPath, cfg.JournalPath)
	assert.Equal(t, DefaultSampleInterval, cfg.Sysmon.SampleInterval)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad level":    "log:\n  level: loud\n",
		"no journal":   "journal_path: \"\"\n",
		"bad interval": "sysmon:\n  sample_interval: 5m\n",
		"bad addr":     "metrics:\n  addr: not an address\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "deskkit.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			_, err := LoadConfig(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}
