package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neilberkman/ccscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteConfig(map[string]map[string]any{
		"/Users/sam/app": {
			"lastSessionId":        "s-1",
			"lastCost":             1.25,
			"lastDuration":         60000,
			"lastTotalInputTokens": 1200,
			"lastModelUsage": map[string]any{
				"claude-opus-4": map[string]any{"inputTokens": 10, "outputTokens": 20},
			},
		},
		"/Users/sam/other": {},
	})

	cfg := ReadConfig(a.ConfigFile)

	real, ok := cfg.RealPath("-Users-sam-app")
	require.True(t, ok)
	assert.Equal(t, "/Users/sam/app", real)

	pc, ok := cfg.Project("/Users/sam/app")
	require.True(t, ok)
	assert.Equal(t, "s-1", pc.LastSessionID)
	require.NotNil(t, pc.LastCost)
	assert.InDelta(t, 1.25, *pc.LastCost, 0.0001)
	require.NotNil(t, pc.LastTotalInputTokens)
	assert.Equal(t, int64(1200), *pc.LastTotalInputTokens)
	assert.Nil(t, pc.LastTotalOutputTokens)
	assert.Equal(t, int64(20), pc.LastModelUsage["claude-opus-4"].OutputTokens)

	assert.Equal(t, []string{"/Users/sam/app", "/Users/sam/other"}, cfg.ProjectPaths())
}

func TestReadConfig_MissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()

	cfg := ReadConfig(filepath.Join(dir, "missing.json"))
	assert.Empty(t, cfg.ProjectPaths())

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`{"projects": {`), 0644))
	cfg = ReadConfig(corrupt)
	assert.Empty(t, cfg.ProjectPaths())
	_, ok := cfg.RealPath("-anything")
	assert.False(t, ok)
}

func TestResolveProjectPath(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteConfig(map[string]map[string]any{"/Users/sam/my-app": {}})
	cfg := ReadConfig(a.ConfigFile)
	layout := NewLayout(a.Root, a.ConfigFile)
	now := time.Now()

	// mapped through the config, literal hyphen preserved
	a.Transcript("-Users-sam-my-app", "s1", now, testutil.User("s1", "2025-01-01T00:00:00Z", "hi"))
	path, orphan := ResolveProjectPath(cfg, layout.ProjectDir("-Users-sam-my-app"))
	assert.Equal(t, "/Users/sam/my-app", path)
	assert.False(t, orphan)

	// orphan with an agent transcript recording its cwd
	agent := testutil.User("parent", "2025-01-01T00:00:00Z", "task")
	agent["cwd"] = "/Users/sam/side-project"
	a.Transcript("-Users-sam-side-project", "agent-abc", now, agent)
	path, orphan = ResolveProjectPath(cfg, layout.ProjectDir("-Users-sam-side-project"))
	assert.Equal(t, "/Users/sam/side-project", path)
	assert.True(t, orphan)

	// orphan without agents falls back to the lossy decode
	a.Transcript("-tmp-scratch-pad", "s2", now, testutil.User("s2", "2025-01-01T00:00:00Z", "x"))
	path, orphan = ResolveProjectPath(cfg, layout.ProjectDir("-tmp-scratch-pad"))
	assert.Equal(t, "/tmp/scratch/pad", path)
	assert.True(t, orphan)
}

func TestChild(t *testing.T) {
	dir := "/archive/file-history/s1"

	p, ok := Child(dir, "abc@v2")
	assert.True(t, ok)
	assert.Equal(t, "/archive/file-history/s1/abc@v2", p)

	for _, bad := range []string{"", ".", "..", "../s2/abc@v1", "a/b", `a\b`} {
		_, ok := Child(dir, bad)
		assert.False(t, ok, "Child(%q) should be rejected", bad)
	}
}

func TestNewLayout_DefaultConfigFile(t *testing.T) {
	l := NewLayout("/home/sam/.claude", "")
	assert.Equal(t, "/home/sam/.claude.json", l.ConfigFile)
	assert.Equal(t, "/home/sam/.claude/projects/-x", l.ProjectDir("-x"))
	assert.Equal(t, "/home/sam/.claude/projects/-x/s1.jsonl", l.TranscriptPath("-x", "s1"))
}
