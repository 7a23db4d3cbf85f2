package ccsessions

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Entry type tags used by Claude Code transcripts.
const (
	TypeUser                = "user"
	TypeAssistant           = "assistant"
	TypeSystem              = "system"
	TypeSummary             = "summary"
	TypeFileHistorySnapshot = "file-history-snapshot"
)

// EntryKind discriminates transcript records by their type tag.
type EntryKind int

const (
	KindUnknown EntryKind = iota
	KindUser
	KindAssistant
	KindSystem
	KindSummary
	KindSnapshot
)

func kindOf(tag string) EntryKind {
	switch tag {
	case TypeUser:
		return KindUser
	case TypeAssistant:
		return KindAssistant
	case TypeSystem:
		return KindSystem
	case TypeSummary:
		return KindSummary
	case TypeFileHistorySnapshot:
		return KindSnapshot
	default:
		return KindUnknown
	}
}

// Entry is one parsed transcript line. Fields are read lazily from the raw
// JSON and every accessor reports absence explicitly.
type Entry struct {
	Kind EntryKind
	Type string // raw type tag, empty when the line has none
	Line int    // 1-based line number in the transcript

	raw gjson.Result
}

func newEntry(raw gjson.Result, line int) Entry {
	tag := ""
	if t := raw.Get("type"); t.Type == gjson.String {
		tag = t.Str
	}
	return Entry{Kind: kindOf(tag), Type: tag, Line: line, raw: raw}
}

// Raw returns the original JSON text of the line.
func (e Entry) Raw() string { return e.raw.Raw }

// Get returns a field by gjson path.
func (e Entry) Get(path string) gjson.Result { return e.raw.Get(path) }

// String returns a non-empty string field.
func (e Entry) String(path string) (string, bool) {
	v := e.raw.Get(path)
	if v.Type != gjson.String || v.Str == "" {
		return "", false
	}
	return v.Str, true
}

func (e Entry) str(path string) string {
	s, _ := e.String(path)
	return s
}

func (e Entry) UUID() string       { return e.str("uuid") }
func (e Entry) ParentUUID() string { return e.str("parentUuid") }
func (e Entry) CWD() string        { return e.str("cwd") }
func (e Entry) GitBranch() string  { return e.str("gitBranch") }

// SessionID returns the sessionId field. For agent transcripts this names
// the parent session, not the agent itself.
func (e Entry) SessionID() (string, bool) { return e.String("sessionId") }

// MessageID returns messageId, falling back to snapshot.messageId.
func (e Entry) MessageID() string {
	if id, ok := e.String("messageId"); ok {
		return id
	}
	return e.str("snapshot.messageId")
}

// Timestamp returns the entry timestamp if present and parsable.
func (e Entry) Timestamp() (time.Time, bool) {
	return ParseTimestamp(e.raw.Get("timestamp"))
}

// Model returns message.model when the entry is an assistant turn.
func (e Entry) Model() (string, bool) {
	if e.Kind != KindAssistant {
		return "", false
	}
	return e.String("message.model")
}

// Message returns the raw message object, or nil when absent.
func (e Entry) Message() json.RawMessage {
	m := e.raw.Get("message")
	if !m.Exists() || m.Type == gjson.Null {
		return nil
	}
	return json.RawMessage(m.Raw)
}

// ContentBlock is one element of a message content array.
type ContentBlock struct {
	Type  string
	Text  string
	ID    string
	Name  string
	Input gjson.Result
}

// ContentBlocks returns message.content as blocks. A plain string content is
// returned as a single text block.
func (e Entry) ContentBlocks() []ContentBlock {
	content := e.raw.Get("message.content")
	switch {
	case content.Type == gjson.String:
		return []ContentBlock{{Type: "text", Text: content.Str}}
	case content.IsArray():
		var blocks []ContentBlock
		content.ForEach(func(_, b gjson.Result) bool {
			if !b.IsObject() {
				return true
			}
			blocks = append(blocks, ContentBlock{
				Type:  b.Get("type").String(),
				Text:  b.Get("text").String(),
				ID:    b.Get("id").String(),
				Name:  b.Get("name").String(),
				Input: b.Get("input"),
			})
			return true
		})
		return blocks
	}
	return nil
}

// Text joins the text blocks of the message.
func (e Entry) Text() string {
	var b strings.Builder
	for _, block := range e.ContentBlocks() {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.Text)
	}
	return b.String()
}

// ToolUses returns the tool_use blocks of an assistant entry.
func (e Entry) ToolUses() []ContentBlock {
	if e.Kind != KindAssistant {
		return nil
	}
	var uses []ContentBlock
	for _, block := range e.ContentBlocks() {
		if block.Type == "tool_use" {
			uses = append(uses, block)
		}
	}
	return uses
}

// TrackedBackup is one element of a snapshot's trackedFileBackups map.
type TrackedBackup struct {
	FilePath       string
	BackupFileName *string
	Version        int
	BackupTime     *time.Time
}

// TrackedBackups returns the snapshot.trackedFileBackups entries in file
// order. Entries that are not objects are skipped.
func (e Entry) TrackedBackups() []TrackedBackup {
	if e.Kind != KindSnapshot {
		return nil
	}
	backups := e.raw.Get("snapshot.trackedFileBackups")
	if !backups.IsObject() {
		return nil
	}
	var out []TrackedBackup
	backups.ForEach(func(key, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		tb := TrackedBackup{FilePath: key.String(), Version: 1}
		if name := v.Get("backupFileName"); name.Type == gjson.String {
			s := name.Str
			tb.BackupFileName = &s
		}
		if ver := v.Get("version"); ver.Type == gjson.Number {
			tb.Version = int(ver.Int())
		}
		if ts, ok := ParseTimestamp(v.Get("backupTime")); ok {
			tb.BackupTime = &ts
		}
		out = append(out, tb)
		return true
	})
	return out
}

// SnapshotTime returns snapshot.timestamp for snapshot entries.
func (e Entry) SnapshotTime() (time.Time, bool) {
	return ParseTimestamp(e.raw.Get("snapshot.timestamp"))
}
