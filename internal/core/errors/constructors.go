package errors

import "fmt"

func ProjectNotFound(id string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("project not found: %s", id)).
		WithDetail("project", id)
}

func SessionNotFound(projectID, sessionID string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("session not found: %s", sessionID)).
		WithDetail("project", projectID).
		WithDetail("session", sessionID)
}

func MessageNotFound(sessionID, messageID string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("message not found: %s", messageID)).
		WithDetail("session", sessionID).
		WithDetail("message", messageID)
}

func BackupNotFound(sessionID, name string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("backup file not found: %s", name)).
		WithDetail("session", sessionID).
		WithDetail("backup", name)
}

func PlanNotFound(name string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("plan not found: %s", name)).WithDetail("plan", name)
}

func SkillNotFound(name string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("skill not found: %s", name)).WithDetail("skill", name)
}

func CommandNotFound(name string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("command not found: %s", name)).WithDetail("command", name)
}

func PluginNotFound(name string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("plugin not found: %s", name)).WithDetail("plugin", name)
}

func SnapshotNotFound(name string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("shell snapshot not found: %s", name)).WithDetail("snapshot", name)
}

// InvalidInput reports a caller-supplied value that cannot be used.
func InvalidInput(field string, value interface{}, reason string) *Error {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field).
		WithDetail("value", value)
}
