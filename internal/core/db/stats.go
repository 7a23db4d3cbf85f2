package db

import (
	"database/sql"
	"time"
)

// Stats represents database statistics
type Stats struct {
	TotalProjects          int
	TotalSessions          int
	TotalAgentSessions     int
	TotalMessages          int
	TotalPrompts           int
	OldestSession          time.Time
	NewestSession          time.Time
	MostActiveProject      string
	MostActiveProjectCount int
}

// GetStats returns comprehensive database statistics
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query  string
		target *int
	}{
		{"SELECT COUNT(*) FROM projects", &stats.TotalProjects},
		{"SELECT COUNT(*) FROM sessions", &stats.TotalSessions},
		{"SELECT COUNT(*) FROM sessions WHERE is_agent", &stats.TotalAgentSessions},
		{"SELECT COUNT(*) FROM messages", &stats.TotalMessages},
		{"SELECT COUNT(*) FROM prompts", &stats.TotalPrompts},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query).Scan(c.target); err != nil {
			return nil, err
		}
	}

	if stats.TotalSessions == 0 {
		return stats, nil
	}

	var minStart, maxEnd sql.NullString
	err := db.QueryRow("SELECT MIN(start_time), MAX(COALESCE(end_time, start_time)) FROM sessions").Scan(&minStart, &maxEnd)
	if err != nil {
		return nil, err
	}
	if t := ParseTime(minStart); t != nil {
		stats.OldestSession = *t
	}
	if t := ParseTime(maxEnd); t != nil {
		stats.NewestSession = *t
	}

	// Most active project
	var mostActiveProject sql.NullString
	err = db.QueryRow(`
		SELECT project_path, COUNT(*) as count
		FROM sessions
		GROUP BY project_path
		ORDER BY count DESC, project_path ASC
		LIMIT 1
	`).Scan(&mostActiveProject, &stats.MostActiveProjectCount)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if mostActiveProject.Valid {
		stats.MostActiveProject = mostActiveProject.String
	}

	return stats, nil
}
