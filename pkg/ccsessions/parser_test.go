package ccsessions

import (
	"strings"
	"testing"
	"time"
)

func TestParseFile(t *testing.T) {
	session, err := ParseFile("testdata/sample.jsonl")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if session.SessionID != "sample" {
		t.Errorf("SessionID = %v, want 'sample'", session.SessionID)
	}

	// The truncated assistant line is dropped, everything around it survives
	if len(session.Entries) != 5 {
		t.Errorf("Entry count = %v, want 5", len(session.Entries))
	}
	if session.Skipped != 1 {
		t.Errorf("Skipped = %v, want 1", session.Skipped)
	}

	if session.Entries[0].Kind != KindSummary {
		t.Errorf("First entry kind = %v, want KindSummary", session.Entries[0].Kind)
	}
	if session.Entries[1].Type != "user" {
		t.Errorf("Second entry type = %v, want 'user'", session.Entries[1].Type)
	}

	last := session.Entries[4]
	ts, ok := last.Timestamp()
	if !ok {
		t.Fatal("last entry should have a timestamp")
	}
	want := time.Date(2025, 1, 15, 10, 0, 10, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", ts, want)
	}
	if last.Text() != "Thanks" {
		t.Errorf("Text() = %q, want 'Thanks'", last.Text())
	}
}

func TestParseFile_InvalidPath(t *testing.T) {
	_, err := ParseFile("nonexistent.jsonl")
	if err == nil {
		t.Error("ParseFile() should return error for invalid path")
	}
}

func TestParse_SkipsGarbage(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"user","uuid":"1"}`,
		`not json at all`,
		`{"type":"user","uuid":"2"}`,
		`[1,2,3]`,
		``,
		`   `,
		`{"type":"assistant","uuid":"3"}`,
		`{"type":"user","uuid":"4"`, // half-written tail
	}, "\n")

	entries, skipped, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	for i, want := range []string{"1", "2", "3"} {
		if got := entries[i].UUID(); got != want {
			t.Errorf("entries[%d].UUID() = %q, want %q", i, got, want)
		}
	}
	if entries[2].Line != 7 {
		t.Errorf("entries[2].Line = %d, want 7", entries[2].Line)
	}
}

func TestParse_NoTrailingNewline(t *testing.T) {
	entries, _, err := Parse(strings.NewReader(`{"type":"user"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("len(entries) = %d, want 1", len(entries))
	}
}

func TestEntryAccessors(t *testing.T) {
	session, err := ParseFile("testdata/sample.jsonl")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	assistant := session.Entries[2]
	if model, ok := assistant.Model(); !ok || model != "claude-sonnet-4-5" {
		t.Errorf("Model() = %q, %v, want claude-sonnet-4-5", model, ok)
	}
	uses := assistant.ToolUses()
	if len(uses) != 1 || uses[0].Name != "Read" {
		t.Errorf("ToolUses() = %+v, want one Read", uses)
	}

	user := session.Entries[1]
	if _, ok := user.Model(); ok {
		t.Error("Model() on a user entry should report absent")
	}
	if sid, ok := user.SessionID(); !ok || sid != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("SessionID() = %q, %v", sid, ok)
	}
	if user.CWD() != "/Users/sam/app" || user.GitBranch() != "main" {
		t.Errorf("CWD/GitBranch = %q/%q", user.CWD(), user.GitBranch())
	}

	snapshot := session.Entries[3]
	if snapshot.Kind != KindSnapshot {
		t.Fatalf("Kind = %v, want KindSnapshot", snapshot.Kind)
	}
	if snapshot.MessageID() != "a1" {
		t.Errorf("MessageID() = %q, want a1", snapshot.MessageID())
	}
	backups := snapshot.TrackedBackups()
	if len(backups) != 2 {
		t.Fatalf("TrackedBackups() len = %d, want 2", len(backups))
	}
	if backups[0].BackupFileName == nil || *backups[0].BackupFileName != "abc123@v1" {
		t.Errorf("backups[0].BackupFileName = %v", backups[0].BackupFileName)
	}
	if backups[1].BackupFileName != nil {
		t.Errorf("backups[1].BackupFileName = %v, want nil", *backups[1].BackupFileName)
	}
}

func TestFirstEntry(t *testing.T) {
	entry, ok, err := FirstEntry("testdata/sample.jsonl")
	if err != nil || !ok {
		t.Fatalf("FirstEntry() = %v, %v", ok, err)
	}
	if entry.Kind != KindSummary {
		t.Errorf("Kind = %v, want KindSummary", entry.Kind)
	}
}

func TestIsAgentID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"agent-a1b2c3", true},
		{"11111111-2222-3333-4444-555555555555", false},
		{"agent", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAgentID(tt.id); got != tt.want {
			t.Errorf("IsAgentID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
