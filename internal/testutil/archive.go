// Package testutil builds throwaway Claude Code archives for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Archive is a temporary ~/.claude tree plus its .claude.json.
type Archive struct {
	t          *testing.T
	Root       string
	ConfigFile string
}

// NewArchive creates an empty archive under t.TempDir().
func NewArchive(t *testing.T) *Archive {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, ".claude")
	if err := os.MkdirAll(filepath.Join(root, "projects"), 0755); err != nil {
		t.Fatal(err)
	}
	return &Archive{t: t, Root: root, ConfigFile: filepath.Join(base, ".claude.json")}
}

// WriteConfig writes .claude.json with the given projects map.
func (a *Archive) WriteConfig(projects map[string]map[string]any) {
	a.t.Helper()
	a.WriteJSON(a.ConfigFile, map[string]any{"projects": projects})
}

// WriteJSON writes v as JSON to path.
func (a *Archive) WriteJSON(path string, v any) {
	a.t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		a.t.Fatal(err)
	}
	a.WriteFile(path, string(data))
}

// WriteFile writes content to path, creating parent directories.
func (a *Archive) WriteFile(path, content string) {
	a.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		a.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		a.t.Fatal(err)
	}
}

// Path joins elements onto the archive root.
func (a *Archive) Path(elem ...string) string {
	return filepath.Join(append([]string{a.Root}, elem...)...)
}

// Transcript writes a transcript of the given lines into a project
// directory and sets its mtime. Lines may be maps (marshalled) or raw
// strings (written verbatim, useful for garbage).
func (a *Archive) Transcript(encoded, sessionID string, mtime time.Time, lines ...any) string {
	a.t.Helper()
	var b strings.Builder
	for _, line := range lines {
		switch v := line.(type) {
		case string:
			b.WriteString(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				a.t.Fatal(err)
			}
			b.Write(data)
		}
		b.WriteByte('\n')
	}
	path := a.Path("projects", encoded, sessionID+".jsonl")
	a.WriteFile(path, b.String())
	a.Touch(path, mtime)
	return path
}

// Touch sets both access and modification time.
func (a *Archive) Touch(path string, mtime time.Time) {
	a.t.Helper()
	if mtime.IsZero() {
		return
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		a.t.Fatal(err)
	}
}

// User builds a user entry.
func User(sessionID string, ts any, text string) map[string]any {
	return map[string]any{
		"type":      "user",
		"uuid":      "u-" + text,
		"sessionId": sessionID,
		"timestamp": ts,
		"message":   map[string]any{"role": "user", "content": text},
	}
}

// Assistant builds an assistant entry with optional tool_use names.
func Assistant(sessionID string, ts any, model string, tools ...string) map[string]any {
	content := []any{map[string]any{"type": "text", "text": "ok"}}
	for i, tool := range tools {
		content = append(content, map[string]any{
			"type":  "tool_use",
			"id":    "tool-" + tool + "-" + string(rune('a'+i)),
			"name":  tool,
			"input": map[string]any{},
		})
	}
	msg := map[string]any{"role": "assistant", "content": content}
	if model != "" {
		msg["model"] = model
	}
	return map[string]any{
		"type":      "assistant",
		"uuid":      "a-" + model,
		"sessionId": sessionID,
		"timestamp": ts,
		"message":   msg,
	}
}

// Snapshot builds a file-history-snapshot entry.
func Snapshot(messageID string, ts any, backups map[string]map[string]any) map[string]any {
	return map[string]any{
		"type":      "file-history-snapshot",
		"messageId": messageID,
		"snapshot": map[string]any{
			"messageId":          messageID,
			"timestamp":          ts,
			"trackedFileBackups": backups,
		},
	}
}

// Day returns midnight UTC of the given date plus an hour offset.
func Day(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// ISO formats t the way transcripts do.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
