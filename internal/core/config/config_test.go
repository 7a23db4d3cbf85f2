package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Missing(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, cfg.DefaultLimit)
	assert.Equal(t, DefaultMaxWorkers, cfg.MaxWorkers)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, DefaultSummaryTemplate, cfg.SummaryTemplate)
}

func TestLoadFile_Overrides(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
claude_dir = "/data/claude"
timezone = "America/New_York"
default_limit = 20
max_workers = 2
exclude_projects = ["tmp/**", "private"]
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/claude", cfg.ClaudeDir)
	assert.Equal(t, 20, cfg.DefaultLimit)
	assert.Equal(t, 2, cfg.MaxWorkers)
	assert.Equal(t, []string{"tmp/**", "private"}, cfg.ExcludeProjects)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, cfg.DefaultLimit)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "/srv/archive")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/archive", cfg.ClaudeDir)
}

func TestLocation_Unknown(t *testing.T) {
	cfg := &Config{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "code"), ExpandHome("~/code"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
