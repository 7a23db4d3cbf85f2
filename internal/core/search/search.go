// Package search runs full-text queries against a snapshot database.
package search

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/neilberkman/ccscope/internal/core/db"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
)

// DefaultLimit caps results when the caller passes 0.
const DefaultLimit = 50

// SearchResult represents a single message hit
type SearchResult struct {
	MessageUUID string `json:"messageUuid"`
	SessionID   string `json:"sessionId"`
	ProjectID   string `json:"projectId"`
	ProjectPath string `json:"projectPath"`
	Type        string `json:"type"`
	MessageText string `json:"text"` // snippet for FTS hits, full text for substring hits
	Timestamp   string `json:"timestamp"`
}

// PromptResult represents a single prompt-history hit
type PromptResult struct {
	Display     string `json:"display"`
	ProjectPath string `json:"projectPath,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Options narrows a search.
type Options struct {
	ProjectID string
	Limit     int
}

// Default sort order for search results (most recent first)
const defaultOrderBy = "m.timestamp DESC, m.id DESC"

// Search performs a full-text search using the natural language FTS table
func Search(database *db.DB, query string, opts Options) ([]SearchResult, error) {
	return search(database, query, "messages_fts", opts)
}

// SearchCode performs a full-text search using the code-optimized FTS table
// This table uses unicode61 tokenizer without stemming to preserve code identifiers
func SearchCode(database *db.DB, query string, opts Options) ([]SearchResult, error) {
	return search(database, query, "messages_fts_code", opts)
}

func validate(query string, limit int) (string, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", 0, ccerrors.InvalidInput("query", query, "search query cannot be empty")
	}
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 0:
		return "", 0, ccerrors.InvalidInput("limit", limit, "must be positive")
	}
	return query, limit, nil
}

// hasSpecialChars reports queries FTS5 would misparse; those fall back to
// a substring match.
func hasSpecialChars(query string) bool {
	return strings.ContainsAny(query, "-_@#$%&/.:")
}

func search(database *db.DB, query string, ftsTable string, opts Options) ([]SearchResult, error) {
	query, limit, err := validate(query, opts.Limit)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if hasSpecialChars(query) {
		rows, err = database.Query(fmt.Sprintf(`
			SELECT
				COALESCE(m.uuid, ''),
				s.session_id,
				s.project_id,
				s.project_path,
				m.type,
				m.text_content,
				COALESCE(m.timestamp, '')
			FROM messages m
			JOIN sessions s ON s.id = m.session_id
			WHERE m.text_content LIKE '%%' || ? || '%%'
			  AND (? = '' OR s.project_id = ?)
			ORDER BY %s
			LIMIT ?
		`, defaultOrderBy), query, opts.ProjectID, opts.ProjectID, limit)
	} else {
		rows, err = database.Query(fmt.Sprintf(`
			SELECT
				COALESCE(m.uuid, ''),
				s.session_id,
				s.project_id,
				s.project_path,
				m.type,
				snippet(%[1]s, -1, '', '', '...', 64) as snippet,
				COALESCE(m.timestamp, '')
			FROM %[1]s
			JOIN messages m ON %[1]s.rowid = m.id
			JOIN sessions s ON s.id = m.session_id
			WHERE %[1]s MATCH ?
			  AND (? = '' OR s.project_id = ?)
			ORDER BY %[2]s
			LIMIT ?
		`, ftsTable, defaultOrderBy), query, opts.ProjectID, opts.ProjectID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(
			&r.MessageUUID,
			&r.SessionID,
			&r.ProjectID,
			&r.ProjectPath,
			&r.Type,
			&r.MessageText,
			&r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// SearchPrompts searches the prompt history.
func SearchPrompts(database *db.DB, query string, opts Options) ([]PromptResult, error) {
	query, limit, err := validate(query, opts.Limit)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if hasSpecialChars(query) {
		rows, err = database.Query(`
			SELECT p.display, COALESCE(p.project_path, ''), COALESCE(p.project_id, ''), COALESCE(p.timestamp, '')
			FROM prompts p
			WHERE p.display LIKE '%' || ? || '%'
			  AND (? = '' OR p.project_id = ?)
			ORDER BY p.timestamp DESC, p.id DESC
			LIMIT ?
		`, query, opts.ProjectID, opts.ProjectID, limit)
	} else {
		rows, err = database.Query(`
			SELECT p.display, COALESCE(p.project_path, ''), COALESCE(p.project_id, ''), COALESCE(p.timestamp, '')
			FROM prompts_fts
			JOIN prompts p ON prompts_fts.rowid = p.id
			WHERE prompts_fts MATCH ?
			  AND (? = '' OR p.project_id = ?)
			ORDER BY p.timestamp DESC, p.id DESC
			LIMIT ?
		`, query, opts.ProjectID, opts.ProjectID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("prompt search failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []PromptResult
	for rows.Next() {
		var r PromptResult
		if err := rows.Scan(&r.Display, &r.ProjectPath, &r.ProjectID, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return results, nil
}
