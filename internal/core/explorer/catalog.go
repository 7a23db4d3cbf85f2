package explorer

import (
	"context"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/catalog"
	"github.com/neilberkman/ccscope/internal/core/paginate"
	"github.com/neilberkman/ccscope/internal/core/stats"
)

// Stats returns the archive's usage counters.
func (e *Explorer) Stats(ctx context.Context) (*stats.Usage, error) {
	return e.stats.Usage(ctx)
}

// DailyStats buckets transcripts by modification day.
func (e *Explorer) DailyStats(ctx context.Context, since, until *time.Time, limit int) ([]stats.DailyUsage, error) {
	return e.stats.Daily(ctx, since, until, limit)
}

// ModelUsage sums per-model token counters from the global config.
func (e *Explorer) ModelUsage(ctx context.Context) map[string]archive.ModelTokens {
	return e.stats.ModelUsage()
}

// History returns one window of the prompt history.
func (e *Explorer) History(ctx context.Context, q catalog.HistoryQuery) (paginate.Page[catalog.HistoryEntry], error) {
	return e.catalog.History(q)
}

// HistoryEntries returns the whole prompt history in file order.
func (e *Explorer) HistoryEntries(ctx context.Context) []catalog.HistoryEntry {
	return e.catalog.HistoryEntries()
}

func (e *Explorer) Plans(ctx context.Context) []catalog.Plan { return e.catalog.Plans() }

func (e *Explorer) Plan(ctx context.Context, name string) (*catalog.Plan, error) {
	return e.catalog.Plan(name)
}

func (e *Explorer) Skills(ctx context.Context) []catalog.Skill { return e.catalog.Skills() }

func (e *Explorer) Skill(ctx context.Context, name string) (*catalog.Skill, error) {
	return e.catalog.Skill(name)
}

func (e *Explorer) Commands(ctx context.Context) []catalog.Command { return e.catalog.Commands() }

func (e *Explorer) Command(ctx context.Context, name string) (*catalog.Command, error) {
	return e.catalog.Command(name)
}

func (e *Explorer) Plugins(ctx context.Context) []catalog.Plugin { return e.catalog.Plugins() }

func (e *Explorer) Plugin(ctx context.Context, name string) (*catalog.Plugin, error) {
	return e.catalog.Plugin(name)
}

func (e *Explorer) ShellSnapshots(ctx context.Context) []catalog.ShellSnapshot {
	return e.catalog.ShellSnapshots()
}

func (e *Explorer) ShellSnapshot(ctx context.Context, name string) (*catalog.ShellSnapshot, error) {
	return e.catalog.ShellSnapshot(name)
}
