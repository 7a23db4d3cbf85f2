package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/ccscope/internal/core/explorer"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/paginate"
)

type errMsg struct {
	err error
}

type statusMsg string

type projectsLoadedMsg struct {
	projects []models.Project
}

type sessionsLoadedMsg struct {
	sessions []models.Session
}

type sessionDetailLoadedMsg struct {
	detail sessionDetail
}

// loadProjects reads every project, most recently active first.
func loadProjects(ctx context.Context, e *explorer.Explorer) tea.Cmd {
	return func() tea.Msg {
		projects, err := paginate.All(func(offset int) (paginate.Page[models.Project], error) {
			return e.ListProjects(ctx, explorer.ProjectQuery{
				SortBy: "lastActivity",
				Limit:  paginate.MaxLimit,
				Offset: offset,
			})
		})
		if err != nil {
			return errMsg{err}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

// loadSessions reads a project's sessions through the filter, newest first.
func loadSessions(ctx context.Context, e *explorer.Explorer, projectID string, f SessionFilter) tea.Cmd {
	return func() tea.Msg {
		sessions, err := paginate.All(func(offset int) (paginate.Page[models.Session], error) {
			return e.ListSessions(ctx, projectID, explorer.SessionQuery{
				Type:   f.Type,
				Since:  f.Since,
				Until:  f.Until,
				SortBy: "lastModified",
				Limit:  paginate.MaxLimit,
				Offset: offset,
			})
		})
		if err != nil {
			return errMsg{err}
		}

		kept := sessions[:0]
		for _, s := range sessions {
			if f.Matches(s) {
				kept = append(kept, s)
			}
		}
		return sessionsLoadedMsg{sessions: kept}
	}
}

// loadSessionDetail reads a session's metadata, correlated data and full
// transcript.
func loadSessionDetail(ctx context.Context, e *explorer.Explorer, project models.Project, sessionID string) tea.Cmd {
	return func() tea.Msg {
		s, err := e.GetSession(ctx, project.ID, sessionID)
		if err != nil {
			return errMsg{err}
		}
		msgs, err := e.AllMessages(ctx, project.ID, sessionID)
		if err != nil {
			return errMsg{err}
		}
		return sessionDetailLoadedMsg{detail: sessionDetail{
			Project:  project,
			Session:  s,
			Messages: msgs,
		}}
	}
}
