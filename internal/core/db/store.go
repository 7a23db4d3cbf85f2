package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/neilberkman/ccscope/internal/core/models"
)

// Prompt is one history.jsonl line as stored in the snapshot.
type Prompt struct {
	Display        string
	Timestamp      *time.Time
	ProjectPath    string
	ProjectID      string
	PastedContents string
}

// DailyRow is one (day, project) rollup.
type DailyRow struct {
	Date              string
	ProjectID         string
	SessionCount      int
	AgentSessionCount int
	MessageCount      int
}

// ExportRecord is one export_log row.
type ExportRecord struct {
	ClaudeDir  string
	ExportedAt time.Time
	Projects   int
	Sessions   int
	Messages   int
	Prompts    int
	Status     string
	Error      string
}

// InsertProject writes a project row.
func InsertProject(tx *sql.Tx, p models.Project) error {
	_, err := tx.Exec(`
		INSERT INTO projects (
			id, path, display_path, name, session_count, last_activity,
			has_session_data, is_orphan, last_session_id, last_cost,
			last_duration, last_total_input_tokens, last_total_output_tokens
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Path, p.DisplayPath, p.Name, p.SessionCount, FormatTime(p.LastActivity),
		p.HasSessionData, p.IsOrphan, nullString(p.LastSessionID), p.LastCost,
		p.LastDuration, p.LastTotalInputTokens, p.LastTotalOutputTokens,
	)
	if err != nil {
		return fmt.Errorf("insert project %s: %w", p.ID, err)
	}
	return nil
}

// InsertSession writes a session row and returns its rowid for messages.
func InsertSession(tx *sql.Tx, s models.Session) (int64, error) {
	result, err := tx.Exec(`
		INSERT INTO sessions (
			session_id, project_id, project_path, start_time, end_time,
			last_modified, message_count, model, is_agent, parent_session_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID, s.ProjectID, s.ProjectPath, FormatTime(s.StartTime), FormatTime(s.EndTime),
		FormatTime(&s.LastModified), s.MessageCount, nullString(s.Model), s.IsAgent,
		nullString(s.ParentSessionID),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return result.LastInsertId()
}

// InsertMessages writes a session's messages in transcript order.
func InsertMessages(tx *sql.Tx, sessionRowID int64, msgs []models.Message) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO messages (
			uuid, session_id, parent_uuid, type, content, text_content,
			timestamp, sequence, model, cwd, git_branch
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare message insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, m := range msgs {
		ts := m.Timestamp
		_, err := stmt.Exec(
			nullString(m.UUID), sessionRowID, nullString(m.ParentUUID), string(m.Type),
			string(m.Content), m.Text, FormatTime(&ts), i+1,
			nullString(m.Model), nullString(m.CWD), nullString(m.GitBranch),
		)
		if err != nil {
			return i, fmt.Errorf("insert message %s: %w", m.UUID, err)
		}
	}
	return len(msgs), nil
}

// InsertDaily writes one rollup row.
func InsertDaily(tx *sql.Tx, d DailyRow) error {
	_, err := tx.Exec(`
		INSERT INTO daily_activity (date, project_id, session_count, agent_session_count, message_count)
		VALUES (?, ?, ?, ?, ?)
	`, d.Date, d.ProjectID, d.SessionCount, d.AgentSessionCount, d.MessageCount)
	if err != nil {
		return fmt.Errorf("insert daily activity %s/%s: %w", d.Date, d.ProjectID, err)
	}
	return nil
}

// InsertPrompt writes one history entry.
func InsertPrompt(tx *sql.Tx, p Prompt) error {
	_, err := tx.Exec(`
		INSERT INTO prompts (display, timestamp, project_path, project_id, pasted_contents)
		VALUES (?, ?, ?, ?, ?)
	`, p.Display, FormatTime(p.Timestamp), nullString(p.ProjectPath), nullString(p.ProjectID), nullString(p.PastedContents))
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

// LogExport appends to export_log.
func (db *DB) LogExport(rec ExportRecord) error {
	at := rec.ExportedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO export_log (
			claude_dir, exported_at, projects_exported, sessions_exported,
			messages_exported, prompts_exported, status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ClaudeDir, FormatTime(&at), rec.Projects, rec.Sessions, rec.Messages, rec.Prompts,
		rec.Status, nullString(rec.Error))
	return err
}

// LastExport returns the newest export_log row, or nil when the snapshot
// was never written.
func (db *DB) LastExport() (*ExportRecord, error) {
	var (
		rec        ExportRecord
		exportedAt sql.NullString
		errMsg     sql.NullString
	)
	err := db.conn.QueryRow(`
		SELECT claude_dir, exported_at, projects_exported, sessions_exported,
		       messages_exported, prompts_exported, status, error_message
		FROM export_log
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&rec.ClaudeDir, &exportedAt, &rec.Projects, &rec.Sessions,
		&rec.Messages, &rec.Prompts, &rec.Status, &errMsg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if t := ParseTime(exportedAt); t != nil {
		rec.ExportedAt = *t
	}
	rec.Error = errMsg.String
	return &rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
