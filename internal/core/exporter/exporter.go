// Package exporter writes a point-in-time SQLite snapshot of an archive.
package exporter

import (
	"context"
	"fmt"
	"sort"

	"github.com/neilberkman/ccscope/internal/core/activity"
	"github.com/neilberkman/ccscope/internal/core/db"
	"github.com/neilberkman/ccscope/internal/core/explorer"
	"github.com/neilberkman/ccscope/internal/core/logging"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/paginate"
)

var log = logging.NewLogger("exporter")

// Result counts what one export wrote.
type Result struct {
	Projects int
	Sessions int
	Messages int
	Prompts  int
	Skipped  int // sessions whose transcript vanished or failed mid-export
}

// Exporter copies explorer query results into a snapshot database.
type Exporter struct {
	explorer *explorer.Explorer
	db       *db.DB
}

// New creates a new exporter
func New(e *explorer.Explorer, database *db.DB) *Exporter {
	return &Exporter{explorer: e, db: database}
}

// Projects lists every project, paging through the explorer.
func (x *Exporter) Projects(ctx context.Context) ([]models.Project, error) {
	return paginate.All(func(offset int) (paginate.Page[models.Project], error) {
		return x.explorer.ListProjects(ctx, explorer.ProjectQuery{
			SortBy: "name",
			Order:  "asc",
			Limit:  paginate.MaxLimit,
			Offset: offset,
		})
	})
}

// Sessions lists every session of a project, oldest first.
func (x *Exporter) Sessions(ctx context.Context, projectID string) ([]models.Session, error) {
	return paginate.All(func(offset int) (paginate.Page[models.Session], error) {
		return x.explorer.ListSessions(ctx, projectID, explorer.SessionQuery{
			SortBy: "startTime",
			Order:  "asc",
			Limit:  paginate.MaxLimit,
			Offset: offset,
		})
	})
}

// Export replaces the snapshot contents with the archive's current state.
// Each project is written in its own transaction. progress may be nil.
func (x *Exporter) Export(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := &Result{}
	rec := db.ExportRecord{
		ClaudeDir:  x.explorer.Layout().Root,
		ExportedAt: x.explorer.Now(),
		Status:     "failed",
	}
	defer func() {
		rec.Projects, rec.Sessions, rec.Messages, rec.Prompts = res.Projects, res.Sessions, res.Messages, res.Prompts
		if err := x.db.LogExport(rec); err != nil {
			log.WithError(err).Warn("failed to write export log")
		}
	}()

	fail := func(err error) (*Result, error) {
		rec.Error = err.Error()
		return res, err
	}

	if err := x.db.Reset(); err != nil {
		return fail(fmt.Errorf("failed to reset snapshot: %w", err))
	}

	projects, err := x.Projects(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to list projects: %w", err))
	}

	agg := activity.New(x.explorer.Location())
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := x.exportProject(ctx, agg, p, res, progress); err != nil {
			return fail(err)
		}
	}

	if err := x.exportPrompts(ctx, projects, res); err != nil {
		return fail(err)
	}

	if progress != nil {
		progress.Finish()
	}

	rec.Status = "success"
	if res.Skipped > 0 {
		rec.Status = "partial"
	}
	return res, nil
}

func (x *Exporter) exportProject(ctx context.Context, agg *activity.Aggregator, p models.Project, res *Result, progress ProgressCallback) error {
	var sessions []models.Session
	if p.HasSessionData {
		var err error
		sessions, err = x.Sessions(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to list sessions of %s: %w", p.ID, err)
		}
	}

	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := db.InsertProject(tx, p); err != nil {
		return err
	}

	daily := map[string]*db.DailyRow{}
	for _, s := range sessions {
		msgs, err := x.explorer.AllMessages(ctx, p.ID, s.ID)
		if err != nil {
			log.WithError(err).WithField("session", s.ID).Debug("skipping session")
			res.Skipped++
			continue
		}

		rowID, err := db.InsertSession(tx, s)
		if err != nil {
			return err
		}
		n, err := db.InsertMessages(tx, rowID, msgs)
		if err != nil {
			return err
		}
		res.Sessions++
		res.Messages += n

		if s.StartTime != nil {
			day := agg.Day(*s.StartTime)
			row := daily[day]
			if row == nil {
				row = &db.DailyRow{Date: day, ProjectID: p.ID}
				daily[day] = row
			}
			row.SessionCount++
			row.MessageCount += s.MessageCount
			if s.IsAgent {
				row.AgentSessionCount++
			}
		}

		if progress != nil {
			progress.Update(p.Name, firstUserText(msgs))
		}
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		if err := db.InsertDaily(tx, *daily[day]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project %s: %w", p.ID, err)
	}
	res.Projects++
	return nil
}

func (x *Exporter) exportPrompts(ctx context.Context, projects []models.Project, res *Result) error {
	entries := x.explorer.HistoryEntries(ctx)
	if len(entries) == 0 {
		return nil
	}

	known := make(map[string]bool, len(projects))
	for _, p := range projects {
		known[p.ID] = true
	}

	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, h := range entries {
		prompt := db.Prompt{
			Display:        h.Display,
			Timestamp:      h.Timestamp,
			ProjectPath:    h.ProjectPath,
			PastedContents: string(h.PastedContents),
		}
		if known[h.ProjectID] {
			prompt.ProjectID = h.ProjectID
		}
		if err := db.InsertPrompt(tx, prompt); err != nil {
			return err
		}
		res.Prompts++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prompts: %w", err)
	}
	return nil
}

func firstUserText(msgs []models.Message) string {
	for _, m := range msgs {
		if m.Type == models.MessageTypeUser && m.Text != "" {
			return m.Text
		}
	}
	return ""
}

// Count returns the number of sessions an export will visit, for sizing a
// progress bar.
func (x *Exporter) Count(ctx context.Context) (int, error) {
	projects, err := x.Projects(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, p := range projects {
		total += p.SessionCount
	}
	return total, nil
}
