package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/neilberkman/ccscope/internal/core/models"
)

func TestParseSessionFilter(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	f := ParseSessionFilter("type:agent after:2024-01-05 before:2024-01-09 opus", now)
	if f.Type != "agent" {
		t.Errorf("Type = %q, want agent", f.Type)
	}
	if f.Since == nil || !f.Since.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Since = %v", f.Since)
	}
	if f.Until == nil || !f.Until.Equal(time.Date(2024, 1, 9, 23, 59, 59, 999999999, time.UTC)) {
		t.Errorf("Until = %v", f.Until)
	}
	if f.Text != "opus" {
		t.Errorf("Text = %q, want opus", f.Text)
	}

	f = ParseSessionFilter("date:yesterday", now)
	if f.Since == nil || !f.Since.Equal(time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date:yesterday Since = %v", f.Since)
	}
	if f.Until == nil || f.Until.Day() != 9 {
		t.Errorf("date:yesterday Until = %v", f.Until)
	}

	if f := ParseSessionFilter("", now); !f.IsZero() {
		t.Errorf("empty filter should be zero, got %+v", f)
	}
}

func TestSessionFilterMatches(t *testing.T) {
	s := models.Session{ID: "agent-1a2b", Model: "claude-opus-4"}
	cases := map[string]bool{
		"":       true,
		"OPUS":   true,
		"1a2b":   true,
		"sonnet": false,
	}
	for text, want := range cases {
		if got := (SessionFilter{Text: text}).Matches(s); got != want {
			t.Errorf("Matches(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestResumeCommand(t *testing.T) {
	if got := ResumeCommand("abc", false); got != "claude --resume abc" {
		t.Errorf("ResumeCommand = %q", got)
	}
	if got := ResumeCommand("abc", true); got != "claude --resume abc --fork-session" {
		t.Errorf("fork ResumeCommand = %q", got)
	}
	if got := resumeCommandIn("/Users/sam/my app", "abc"); got != "cd '/Users/sam/my app' && claude --resume abc" {
		t.Errorf("resumeCommandIn = %q", got)
	}
}

func TestFindAndHighlightMatches(t *testing.T) {
	content := "first line\nLogin flow\nnothing\nlogin again"
	lines := findMatchLines(content, "login")
	if len(lines) != 2 || lines[0] != 1 || lines[1] != 3 {
		t.Fatalf("findMatchLines = %v, want [1 3]", lines)
	}

	out := highlightContent(content, "login", 1)
	if !strings.Contains(out, "first line") || !strings.Contains(out, "nothing") {
		t.Errorf("unmatched lines should pass through: %q", out)
	}
	if strings.Count(out, "\n") != 3 {
		t.Errorf("line count changed: %q", out)
	}
}

func TestRenderDetail(t *testing.T) {
	start := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	plan := "brave-otter"
	dur := int64(90000)
	d := &sessionDetail{
		Project: models.Project{ID: "-Users-sam-app", Path: "/Users/sam/app", DisplayPath: "~/app"},
		Session: &models.SessionDetail{
			Session:  models.Session{ID: "s-1", StartTime: &start, EndTime: &end, MessageCount: 2},
			Duration: &dur,
			Metadata: models.SessionMetadata{Model: "claude-opus-4", ToolsUsed: []string{"Edit", "Read"}},
			CorrelatedData: &models.CorrelatedData{
				Todos:      []models.TodoItem{{Content: "write tests", Status: "completed"}},
				LinkedPlan: &plan,
			},
		},
		Messages: []models.Message{
			{Type: models.MessageTypeUser, Timestamp: start, Text: "hello there"},
			{Type: models.MessageTypeAssistant, Timestamp: end, Text: "hi"},
		},
	}

	out := renderDetail(d, time.UTC, 80)
	for _, want := range []string{"Session s-1", "~/app", "1m30s", "claude-opus-4", "Edit, Read", "write tests", "brave-otter", "hello there", "ASSISTANT", "2024-01-09 10:01:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderDetail missing %q", want)
		}
	}
}
