package models

import "time"

// TodoItem is one entry of a session's todo list.
type TodoItem struct {
	Content    string `json:"content"`
	Status     string `json:"status"`
	ActiveForm string `json:"activeForm,omitempty"`
}

// FileAction classifies a file-history entry.
type FileAction string

const (
	FileActionCreated  FileAction = "created"
	FileActionModified FileAction = "modified"
)

// FileHistoryEntry is one backed-up version of a file touched in a session.
type FileHistoryEntry struct {
	FilePath       string     `json:"filePath"`
	BackupFileName *string    `json:"backupFileName"`
	Version        int        `json:"version"`
	BackupTime     *time.Time `json:"backupTime"`
	MessageID      string     `json:"messageId,omitempty"`
	Action         FileAction `json:"action"`
}

// ActionFor classifies a backup: no backup file means the file did not
// exist before this version.
func ActionFor(backupFileName *string) FileAction {
	if backupFileName == nil {
		return FileActionCreated
	}
	return FileActionModified
}

// DebugLog is a possibly truncated debug log excerpt.
type DebugLog struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// CorrelatedData gathers everything other stores hold for one session id.
// Each part comes from an independent store and may be empty on its own.
type CorrelatedData struct {
	Todos       []TodoItem         `json:"todos"`
	FileHistory []FileHistoryEntry `json:"fileHistory"`
	DebugLogs   []DebugLog         `json:"debugLogs"`
	LinkedPlan  *string            `json:"linkedPlan"`
	LinkedSkill *string            `json:"linkedSkill"`
}
