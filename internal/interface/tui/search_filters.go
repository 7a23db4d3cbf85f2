package tui

import (
	"strings"
	"time"

	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// SessionFilter narrows the session list.
type SessionFilter struct {
	Text  string     // matched against session id and model
	Type  string     // all, regular or agent
	Since *time.Time // start of day, inclusive
	Until *time.Time // end of day, inclusive
}

// ParseSessionFilter extracts filters from a filter line.
// Supports:
//   - type:agent, type:regular, type:all
//   - after:yesterday, since:2024-11-01 - sessions starting on or after that day
//   - before:last-week, until:2024-11-01 - sessions starting on or before that day
//   - date:yesterday - sessions starting that day
//
// Dates are relative to now and bucketed in now's location. Anything else
// is free text.
func ParseSessionFilter(query string, now time.Time) SessionFilter {
	var f SessionFilter

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	var textParts []string
	for _, token := range strings.Fields(query) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			textParts = append(textParts, token)
			continue
		}

		switch strings.ToLower(key) {
		case "type":
			f.Type = strings.ToLower(value)
		case "after", "since":
			if day := parseDay(w, value, now); day != nil {
				f.Since = day
			}
		case "before", "until":
			if day := parseDay(w, value, now); day != nil {
				end := endOfDay(*day)
				f.Until = &end
			}
		case "date":
			if day := parseDay(w, value, now); day != nil {
				end := endOfDay(*day)
				f.Since, f.Until = day, &end
			}
		default:
			textParts = append(textParts, token)
		}
	}

	f.Text = strings.Join(textParts, " ")
	return f
}

// Matches applies the free-text part of the filter.
func (f SessionFilter) Matches(s models.Session) bool {
	if f.Text == "" {
		return true
	}
	text := strings.ToLower(f.Text)
	return strings.Contains(strings.ToLower(s.ID), text) ||
		strings.Contains(strings.ToLower(s.Model), text)
}

// IsZero reports whether the filter lets everything through.
func (f SessionFilter) IsZero() bool {
	return f.Text == "" && f.Type == "" && f.Since == nil && f.Until == nil
}

// parseDay resolves a date or natural-language phrase to the start of its
// day. Hyphens stand in for spaces so phrases fit in one token.
func parseDay(w *when.Parser, value string, now time.Time) *time.Time {
	loc := now.Location()
	for _, layout := range []string{"2006-01-02", "2006/01/02", "01/02/2006"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t
		}
	}

	result, err := w.Parse(strings.ReplaceAll(value, "-", " "), now)
	if err != nil || result == nil {
		return nil
	}
	t := result.Time.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return &day
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
