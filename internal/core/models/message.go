package models

import (
	"encoding/json"
	"strings"
	"time"
)

// MessageType represents the type of JSONL entry
type MessageType string

const (
	MessageTypeSummary             MessageType = "summary"
	MessageTypeUser                MessageType = "user"
	MessageTypeAssistant           MessageType = "assistant"
	MessageTypeSystem              MessageType = "system"
	MessageTypeFileHistorySnapshot MessageType = "file-history-snapshot"
)

// MessageFilter restricts message listings to one side of the conversation.
type MessageFilter string

const (
	MessageFilterAll       MessageFilter = "all"
	MessageFilterUser      MessageFilter = "user"
	MessageFilterAssistant MessageFilter = "assistant"
)

// ParseMessageFilter accepts all, user or assistant; empty means all.
func ParseMessageFilter(s string) (MessageFilter, bool) {
	switch MessageFilter(strings.ToLower(s)) {
	case "", MessageFilterAll:
		return MessageFilterAll, true
	case MessageFilterUser:
		return MessageFilterUser, true
	case MessageFilterAssistant:
		return MessageFilterAssistant, true
	}
	return "", false
}

// Match reports whether a message type passes the filter.
func (f MessageFilter) Match(t MessageType) bool {
	switch f {
	case MessageFilterUser:
		return t == MessageTypeUser
	case MessageFilterAssistant:
		return t == MessageTypeAssistant
	default:
		return true
	}
}

// Message is a transcript entry with a type and a parsable timestamp.
type Message struct {
	UUID       string          `json:"uuid"`
	ParentUUID string          `json:"parentUuid,omitempty"`
	Type       MessageType     `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	SessionID  string          `json:"sessionId"`
	Content    json.RawMessage `json:"content"` // the entry's message object
	Model      string          `json:"model,omitempty"`
	CWD        string          `json:"cwd,omitempty"`
	GitBranch  string          `json:"gitBranch,omitempty"`
	Text       string          `json:"-"` // joined text blocks, for display
}
