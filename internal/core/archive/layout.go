// Package archive knows where Claude Code keeps things on disk and how to
// read its global config file.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neilberkman/ccscope/internal/core/logging"
)

var log = logging.NewLogger("archive")

// Layout locates the stores of one Claude Code archive.
type Layout struct {
	Root       string // ~/.claude
	ConfigFile string // ~/.claude.json
}

// NewLayout builds a Layout. An empty configFile defaults to the
// .claude.json file next to root.
func NewLayout(root, configFile string) Layout {
	if configFile == "" {
		configFile = filepath.Join(filepath.Dir(filepath.Clean(root)), ".claude.json")
	}
	return Layout{Root: root, ConfigFile: configFile}
}

// DefaultLayout returns the layout under the user's home directory.
func DefaultLayout() (Layout, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, fmt.Errorf("failed to get home dir: %w", err)
	}
	return Layout{
		Root:       filepath.Join(home, ".claude"),
		ConfigFile: filepath.Join(home, ".claude.json"),
	}, nil
}

func (l Layout) ProjectsDir() string       { return filepath.Join(l.Root, "projects") }
func (l Layout) TodosDir() string          { return filepath.Join(l.Root, "todos") }
func (l Layout) FileHistoryDir() string    { return filepath.Join(l.Root, "file-history") }
func (l Layout) DebugDir() string          { return filepath.Join(l.Root, "debug") }
func (l Layout) PlansDir() string          { return filepath.Join(l.Root, "plans") }
func (l Layout) SkillsDir() string         { return filepath.Join(l.Root, "skills") }
func (l Layout) CommandsDir() string       { return filepath.Join(l.Root, "commands") }
func (l Layout) SessionEnvDir() string     { return filepath.Join(l.Root, "session-env") }
func (l Layout) ShellSnapshotsDir() string { return filepath.Join(l.Root, "shell-snapshots") }
func (l Layout) StatsCacheFile() string    { return filepath.Join(l.Root, "stats-cache.json") }
func (l Layout) HistoryFile() string       { return filepath.Join(l.Root, "history.jsonl") }
func (l Layout) PluginsFile() string       { return filepath.Join(l.Root, "plugins", "installed_plugins.json") }

// ProjectDir returns the transcript directory for an encoded project id.
func (l Layout) ProjectDir(encoded string) string {
	return filepath.Join(l.ProjectsDir(), encoded)
}

// TranscriptPath returns the transcript file for a session id.
func (l Layout) TranscriptPath(encoded, sessionID string) string {
	return filepath.Join(l.ProjectDir(encoded), sessionID+".jsonl")
}

// Child joins name onto dir and rejects names that would leave dir.
func Child(dir, name string) (string, bool) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", false
	}
	path := filepath.Join(dir, name)
	if filepath.Dir(path) != filepath.Clean(dir) {
		return "", false
	}
	return path, true
}

// IsDirOrSymlink reports whether a directory entry is a directory or a
// symlink pointing at one.
func IsDirOrSymlink(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}

// ReadDir lists dir. A missing or unreadable directory reads as empty.
func ReadDir(dir string) []os.DirEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("dir", dir).Debug("skipping unreadable directory")
		}
		return nil
	}
	return entries
}
