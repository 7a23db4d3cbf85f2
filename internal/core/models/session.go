package models

import (
	"errors"
	"strings"
	"time"
)

// Session is one transcript, either a main conversation (UUID id) or a
// sub-agent (agent-<id>).
type Session struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"projectId"` // encoded project directory
	ProjectPath     string     `json:"projectPath"`
	StartTime       *time.Time `json:"startTime"` // first parsable timestamp, not file creation
	EndTime         *time.Time `json:"endTime"`   // last parsable timestamp
	LastModified    time.Time  `json:"lastModified"`
	MessageCount    int        `json:"messageCount"` // snapshot entries excluded
	Model           string     `json:"model,omitempty"`
	IsAgent         bool       `json:"isAgent"`
	ParentSessionID string     `json:"parentSessionId,omitempty"`
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	if s.ProjectID == "" {
		return errors.New("project id is required")
	}
	if s.StartTime != nil && s.EndTime != nil && s.EndTime.Before(*s.StartTime) {
		return errors.New("end time precedes start time")
	}
	return nil
}

// Duration returns EndTime - StartTime when both are known.
func (s *Session) Duration() (time.Duration, bool) {
	if s.StartTime == nil || s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(*s.StartTime), true
}

// SessionMetadata summarizes a transcript's content.
type SessionMetadata struct {
	TotalTokens int      `json:"totalTokens"`
	Model       string   `json:"model,omitempty"`
	ToolsUsed   []string `json:"toolsUsed"`
}

// SessionDetail is a session with its derived metadata and correlations.
type SessionDetail struct {
	Session
	Duration       *int64          `json:"duration"` // milliseconds
	Metadata       SessionMetadata `json:"metadata"`
	SubAgentIDs    []string        `json:"subAgentIds"`
	CorrelatedData *CorrelatedData `json:"correlatedData"`
}

// SessionType filters sessions by id kind.
type SessionType string

const (
	SessionTypeAll     SessionType = "all"
	SessionTypeRegular SessionType = "regular"
	SessionTypeAgent   SessionType = "agent"
)

// ParseSessionType accepts all, regular or agent. Empty means def.
func ParseSessionType(s string, def SessionType) (SessionType, error) {
	switch SessionType(strings.ToLower(s)) {
	case "":
		return def, nil
	case SessionTypeAll:
		return SessionTypeAll, nil
	case SessionTypeRegular:
		return SessionTypeRegular, nil
	case SessionTypeAgent:
		return SessionTypeAgent, nil
	}
	return "", errors.New("type must be one of all, regular, agent")
}

// Match reports whether a session id passes the filter.
func (t SessionType) Match(id string) bool {
	isAgent := strings.HasPrefix(id, "agent-")
	switch t {
	case SessionTypeRegular:
		return !isAgent
	case SessionTypeAgent:
		return isAgent
	default:
		return true
	}
}

// SubAgentLinks is both directions of the parent/child relationship.
type SubAgentLinks struct {
	SessionID       string    `json:"sessionId"`
	ParentSessionID string    `json:"parentSessionId,omitempty"`
	SubAgents       []Session `json:"subAgents"`
}
