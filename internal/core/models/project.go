package models

import "time"

// Project is a working directory Claude Code has been used in. It is
// discovered on every listing from the transcript directories and the
// global config; nothing here is persisted.
type Project struct {
	ID                    string     `json:"id"` // encoded directory name
	Path                  string     `json:"path"`
	DisplayPath           string     `json:"displayPath"`
	Name                  string     `json:"name"`
	SessionCount          int        `json:"sessionCount"`
	LastActivity          *time.Time `json:"lastActivity"` // newest transcript mtime
	HasSessionData        bool       `json:"hasSessionData"`
	IsOrphan              bool       `json:"isOrphan"` // on disk but absent from the config
	LastSessionID         string     `json:"lastSessionId,omitempty"`
	LastCost              *float64   `json:"lastCost"`
	LastDuration          *float64   `json:"lastDuration"`
	LastTotalInputTokens  *int64     `json:"lastTotalInputTokens"`
	LastTotalOutputTokens *int64     `json:"lastTotalOutputTokens"`
}

// DateRange is an inclusive pair of optional instants.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// ProjectActivitySummary rolls up a project's transcripts.
type ProjectActivitySummary struct {
	TotalMessages      int       `json:"totalMessages"`
	TotalAgentSessions int       `json:"totalAgentSessions"`
	DateRange          DateRange `json:"dateRange"`
}

// ProjectDetail is a project with its most recent sessions.
type ProjectDetail struct {
	Project
	RecentSessions  []Session              `json:"recentSessions"`
	ActivitySummary ProjectActivitySummary `json:"activitySummary"`
}
