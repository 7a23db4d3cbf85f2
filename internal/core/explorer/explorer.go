// Package explorer is the query surface over a Claude Code archive. Every
// call re-reads the filesystem: nothing is cached between queries, so
// results always reflect the archive as it is now.
package explorer

import (
	"os"
	"time"

	"github.com/neilberkman/ccscope/internal/core/activity"
	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/catalog"
	"github.com/neilberkman/ccscope/internal/core/correlate"
	"github.com/neilberkman/ccscope/internal/core/logging"
	"github.com/neilberkman/ccscope/internal/core/projects"
	"github.com/neilberkman/ccscope/internal/core/stats"
)

var log = logging.NewLogger("explorer")

const DefaultMaxWorkers = 8

// Explorer answers queries against one archive.
type Explorer struct {
	layout   archive.Layout
	loc      *time.Location
	workers  int
	excludes []string
	now      func() time.Time
	home     string

	projects   *projects.Discoverer
	correlator *correlate.Resolver
	catalog    *catalog.Catalog
	aggregator *activity.Aggregator
	stats      *stats.Computer
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithLocation sets the zone calendar days are taken in. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Explorer) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithMaxWorkers bounds how many transcripts are read at once.
func WithMaxWorkers(n int) Option {
	return func(e *Explorer) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithExcludes hides projects whose path matches any pattern.
func WithExcludes(patterns []string) Option {
	return func(e *Explorer) { e.excludes = patterns }
}

// WithClock replaces time.Now for "last N days" windows.
func WithClock(now func() time.Time) Option {
	return func(e *Explorer) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHome sets the directory shown as ~ in display paths.
func WithHome(home string) Option {
	return func(e *Explorer) { e.home = home }
}

// New returns an Explorer over layout.
func New(layout archive.Layout, opts ...Option) *Explorer {
	e := &Explorer{
		layout:  layout,
		loc:     time.UTC,
		workers: DefaultMaxWorkers,
		now:     time.Now,
	}
	if home, err := os.UserHomeDir(); err == nil {
		e.home = home
	}
	for _, opt := range opts {
		opt(e)
	}

	excluder, err := projects.NewExcluder(e.excludes)
	if err != nil {
		log.WithError(err).Warn("ignoring invalid project exclude patterns")
		excluder = nil
	}
	e.projects = &projects.Discoverer{Layout: layout, Home: e.home, Workers: e.workers, Excluder: excluder}
	e.correlator = correlate.New(layout)
	e.catalog = catalog.New(layout)
	e.aggregator = activity.New(e.loc)
	e.stats = &stats.Computer{Layout: layout, Location: e.loc, Workers: e.workers, Now: e.now}
	return e
}

// Layout returns the archive locations in use.
func (e *Explorer) Layout() archive.Layout { return e.layout }

// Location returns the zone calendar days are taken in.
func (e *Explorer) Location() *time.Location { return e.loc }

// Now returns the explorer's current time.
func (e *Explorer) Now() time.Time { return e.now() }
