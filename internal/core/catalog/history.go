package catalog

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/neilberkman/ccscope/internal/core/paginate"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
	"github.com/tidwall/gjson"
)

// HistoryEntry is one prompt typed into Claude Code.
type HistoryEntry struct {
	Display        string          `json:"display"`
	Timestamp      *time.Time      `json:"timestamp"`
	Project        string          `json:"project,omitempty"`
	ProjectPath    string          `json:"projectPath,omitempty"`
	ProjectID      string          `json:"projectId,omitempty"`
	PastedContents json.RawMessage `json:"pastedContents,omitempty"`
}

// HistoryQuery filters the prompt history. Project is a substring of the
// project path; Search a case-insensitive substring of the prompt.
type HistoryQuery struct {
	Project string
	Search  string
	Since   *time.Time
	Until   *time.Time
	Limit   int
	Offset  int
}

// History reads history.jsonl newest first. Unparsable lines are skipped;
// a missing file is an empty history.
func (c *Catalog) History(q HistoryQuery) (paginate.Page[HistoryEntry], error) {
	limit, offset, err := paginate.Normalize(q.Limit, q.Offset, paginate.DefaultLimit)
	if err != nil {
		return paginate.Page[HistoryEntry]{}, err
	}
	entries := c.HistoryEntries()

	search := strings.ToLower(q.Search)
	filtered := entries[:0]
	for _, e := range entries {
		if q.Project != "" && !strings.Contains(e.Project, q.Project) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Display), search) {
			continue
		}
		if q.Since != nil && (e.Timestamp == nil || e.Timestamp.Before(*q.Since)) {
			continue
		}
		if q.Until != nil && (e.Timestamp == nil || e.Timestamp.After(*q.Until)) {
			continue
		}
		filtered = append(filtered, e)
	}

	paginate.SortBy(filtered, paginate.Desc,
		func(e HistoryEntry) int64 { return paginate.TimeKey(e.Timestamp) },
		func(e HistoryEntry) string { return e.Display })
	return paginate.Window(filtered, limit, offset), nil
}

// HistoryEntries returns every parsable history entry in file order.
func (c *Catalog) HistoryEntries() []HistoryEntry {
	f, err := os.Open(c.layout.HistoryFile())
	if err != nil {
		return []HistoryEntry{}
	}
	defer f.Close()

	entries := []HistoryEntry{}
	scanner := ccsessions.NewScanner(f)
	for scanner.Next() {
		e := scanner.Entry()
		display, _ := e.String("display")
		entry := HistoryEntry{Display: display}
		if ts, ok := ccsessions.ParseTimestamp(e.Get("timestamp")); ok {
			entry.Timestamp = &ts
		}
		if project, ok := e.String("project"); ok {
			entry.Project = project
			entry.ProjectPath = project
			entry.ProjectID = ccsessions.EncodePath(project)
		}
		if pasted := e.Get("pastedContents"); pasted.Exists() && pasted.Type != gjson.Null {
			entry.PastedContents = json.RawMessage(pasted.Raw)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Debug("history read stopped early")
	}
	if n := scanner.Skipped(); n > 0 {
		log.WithField("skipped", n).Debug("skipped unparsable history lines")
	}
	return entries
}
