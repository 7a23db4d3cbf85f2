package cli

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// relTime renders an optional instant as "3 hours ago".
func relTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return humanize.Time(*t)
}

// stamp renders an optional instant in loc.
func stamp(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.In(loc).Format("Jan 02, 2006 15:04:05")
}

// truncate collapses whitespace and cuts s to maxLen runes, preferring a
// word boundary.
func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	truncated := string(r[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)-20 && lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseDateFlag accepts YYYY-MM-DD, RFC 3339 or natural language such as
// "yesterday" or "last week". Plain dates are taken in loc. Empty is nil.
func parseDateFlag(flag, value string, now time.Time, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	result, err := dateParser.Parse(value, now.In(loc))
	if err == nil && result != nil {
		t := result.Time
		return &t, nil
	}
	return nil, ccerrors.InvalidInput(flag, value, "not a date (try 2024-01-31, yesterday or \"2 weeks ago\")")
}

// endOfDay extends a date-only bound to the last instant of its day.
func endOfDay(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	local := t.In(loc)
	if local.Hour() != 0 || local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
		return t
	}
	end := local.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
