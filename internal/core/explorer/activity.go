package explorer

import (
	"context"

	"github.com/neilberkman/ccscope/internal/core/activity"
	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/projects"
	"github.com/neilberkman/ccscope/internal/core/sessions"
	"golang.org/x/sync/errgroup"
)

// ProjectActivity is the timeline of one project over the last days days.
// days 0 means 14; the type filter defaults to regular sessions.
func (e *Explorer) ProjectActivity(ctx context.Context, projectID string, days int, typeFilter string) (*models.ActivityReport, error) {
	days, err := activity.ParseDays(days)
	if err != nil {
		return nil, err
	}
	typ, err := models.ParseSessionType(typeFilter, models.SessionTypeRegular)
	if err != nil {
		return nil, ccerrors.InvalidInput("type", typeFilter, err.Error())
	}
	project, err := e.projects.Resolve(projectID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	since := e.aggregator.Cutoff(now, days)
	filter := activity.Filter{Since: &since, Type: typ}

	all, err := sessions.Index(ctx, project.ID, project.Path, e.layout.ProjectDir(project.ID), e.workers)
	if err != nil {
		return nil, err
	}
	var selected []models.ActivitySession
	for _, s := range all {
		if filter.Match(s) {
			selected = append(selected, models.ActivitySession{Session: s, ProjectName: project.Name})
		}
	}

	report := e.aggregator.Timeline(selected)
	end := now.In(e.loc)
	report.Summary.DateRange = models.DateRange{Start: &since, End: &end}
	return &report, nil
}

// GlobalActivity is the timeline across every project between two
// inclusive dates (YYYY-MM-DD, either may be empty). The type filter
// defaults to all sessions.
func (e *Explorer) GlobalActivity(ctx context.Context, startDate, endDate, typeFilter string) (*models.ActivityReport, error) {
	r, selected, err := e.collect(ctx, startDate, endDate, typeFilter)
	if err != nil {
		return nil, err
	}
	report := e.aggregator.Timeline(selected)
	report.Summary.DateRange = r
	return &report, nil
}

// ActivitySummary breaks the cross-project range down by project and by
// day without listing sessions.
func (e *Explorer) ActivitySummary(ctx context.Context, startDate, endDate, typeFilter string) (*models.ActivitySummary, error) {
	r, selected, err := e.collect(ctx, startDate, endDate, typeFilter)
	if err != nil {
		return nil, err
	}
	summary := e.aggregator.Summarize(selected)
	summary.DateRange = r
	return &summary, nil
}

// collect indexes every project and keeps the sessions inside the range.
func (e *Explorer) collect(ctx context.Context, startDate, endDate, typeFilter string) (models.DateRange, []models.ActivitySession, error) {
	r, err := e.aggregator.DateRange(startDate, endDate)
	if err != nil {
		return r, nil, err
	}
	typ, err := models.ParseSessionType(typeFilter, models.SessionTypeAll)
	if err != nil {
		return r, nil, ccerrors.InvalidInput("type", typeFilter, err.Error())
	}
	filter := activity.Filter{Since: r.Start, Until: r.End, Type: typ}

	cfg := archive.ReadConfig(e.layout.ConfigFile)
	projectsDir := e.layout.ProjectsDir()
	var dirs []string
	for _, entry := range archive.ReadDir(projectsDir) {
		if archive.IsDirOrSymlink(projectsDir, entry) {
			dirs = append(dirs, entry.Name())
		}
	}

	perProject := make([][]models.ActivitySession, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, id := range dirs {
		g.Go(func() error {
			dir := e.layout.ProjectDir(id)
			path, _ := archive.ResolveProjectPath(cfg, dir)
			if e.projects.Excluder.Excluded(path) {
				return nil
			}
			all, err := sessions.Index(gctx, id, path, dir, 1)
			if err != nil {
				return err
			}
			name := projects.Name(path)
			for _, s := range all {
				if filter.Match(s) {
					perProject[i] = append(perProject[i], models.ActivitySession{Session: s, ProjectName: name})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return r, nil, err
	}

	var selected []models.ActivitySession
	for _, part := range perProject {
		selected = append(selected, part...)
	}
	return r, selected, nil
}
