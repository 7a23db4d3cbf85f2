// Package stats computes usage counters over the whole archive.
package stats

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/logging"
	"github.com/neilberkman/ccscope/internal/core/sessions"
	"golang.org/x/sync/errgroup"
)

var log = logging.NewLogger("stats")

const (
	DefaultDailyLimit = 30
	MaxDailyLimit     = 100
)

// Usage is either the archive's own stats-cache.json, passed through
// untouched, or a minimal set of counters computed from the transcripts.
type Usage struct {
	Version          int    `json:"version"`
	LastComputedDate string `json:"lastComputedDate"`
	TotalSessions    int    `json:"totalSessions"`
	TotalMessages    int    `json:"totalMessages"`

	// Cached holds the stats-cache.json document when it parsed.
	Cached map[string]any `json:"-"`
}

// MarshalJSON emits the cached document verbatim when there is one.
func (u Usage) MarshalJSON() ([]byte, error) {
	if u.Cached != nil {
		return json.Marshal(u.Cached)
	}
	type plain Usage
	return json.Marshal(plain(u))
}

// DailyUsage is one day of transcript activity, bucketed by file mtime.
type DailyUsage struct {
	Date          string `json:"date"`
	MessageCount  int    `json:"messageCount"`
	SessionCount  int    `json:"sessionCount"`
	ToolCallCount int    `json:"toolCallCount"`
}

// Computer reads one archive.
type Computer struct {
	Layout   archive.Layout
	Location *time.Location
	Workers  int
	Now      func() time.Time
}

type fileCounts struct {
	mtime     time.Time
	messages  int
	toolCalls int
}

// Usage returns stats-cache.json when it exists and parses, and computed
// counters otherwise.
func (c *Computer) Usage(ctx context.Context) (*Usage, error) {
	if data, err := os.ReadFile(c.Layout.StatsCacheFile()); err == nil {
		var cached map[string]any
		if err := json.Unmarshal(data, &cached); err == nil && cached != nil {
			return &Usage{Cached: cached}, nil
		}
		log.WithField("file", c.Layout.StatsCacheFile()).Debug("stats cache unparsable, computing")
	}

	counts, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	u := &Usage{
		Version:          1,
		LastComputedDate: c.now().In(c.location()).Format("2006-01-02"),
		TotalSessions:    len(counts),
	}
	for _, fc := range counts {
		u.TotalMessages += fc.messages
	}
	return u, nil
}

// Daily buckets transcripts by the day they were last modified, newest
// day first. since and until bound the day inclusively; limit 0 means
// DefaultDailyLimit.
func (c *Computer) Daily(ctx context.Context, since, until *time.Time, limit int) ([]DailyUsage, error) {
	switch {
	case limit == 0:
		limit = DefaultDailyLimit
	case limit < 0 || limit > MaxDailyLimit:
		return nil, ccerrors.InvalidInput("limit", limit, "must be between 1 and 100")
	}

	counts, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}

	loc := c.location()
	var from, to string
	if since != nil {
		from = since.In(loc).Format("2006-01-02")
	}
	if until != nil {
		to = until.In(loc).Format("2006-01-02")
	}

	byDay := map[string]*DailyUsage{}
	for _, fc := range counts {
		date := fc.mtime.In(loc).Format("2006-01-02")
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		d, ok := byDay[date]
		if !ok {
			d = &DailyUsage{Date: date}
			byDay[date] = d
		}
		d.SessionCount++
		d.MessageCount += fc.messages
		d.ToolCallCount += fc.toolCalls
	}

	days := make([]DailyUsage, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days[:min(limit, len(days))], nil
}

// ModelUsage sums the lastModelUsage counters of every project in the
// global config, per model.
func (c *Computer) ModelUsage() map[string]archive.ModelTokens {
	cfg := archive.ReadConfig(c.Layout.ConfigFile)
	usage := map[string]archive.ModelTokens{}
	for _, path := range cfg.ProjectPaths() {
		pc, _ := cfg.Project(path)
		for model, t := range pc.LastModelUsage {
			sum := usage[model]
			sum.InputTokens += t.InputTokens
			sum.OutputTokens += t.OutputTokens
			sum.CacheReadInputTokens += t.CacheReadInputTokens
			sum.CacheCreationInputTokens += t.CacheCreationInputTokens
			usage[model] = sum
		}
	}
	return usage
}

// scan counts messages and tool calls in every transcript of every
// project.
func (c *Computer) scan(ctx context.Context) ([]fileCounts, error) {
	projectsDir := c.Layout.ProjectsDir()
	var files []sessions.File
	for _, entry := range archive.ReadDir(projectsDir) {
		if archive.IsDirOrSymlink(projectsDir, entry) {
			files = append(files, sessions.ListFiles(c.Layout.ProjectDir(entry.Name()))...)
		}
	}

	counts := make([]fileCounts, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts[i].mtime = f.ModTime
			ps, err := sessions.Load(f.Path)
			if err != nil {
				log.WithError(err).WithField("file", f.Path).Debug("transcript unreadable")
				return nil
			}
			counts[i].messages = sessions.BoundsOf(ps.Entries).MessageCount
			counts[i].toolCalls = sessions.ToolCallCount(ps.Entries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (c *Computer) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c *Computer) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
