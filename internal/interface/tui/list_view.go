package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/ccscope/internal/core/models"
)

type projectListItem struct {
	project    models.Project
	currentDir bool
}

func (i projectListItem) FilterValue() string {
	return i.project.Name + " " + i.project.Path
}

func (i projectListItem) Title() string {
	title := i.project.Name
	if i.project.IsOrphan {
		title += " (not in config)"
	}
	return title
}

func (i projectListItem) Description() string {
	return fmt.Sprintf("%s | %s | %s",
		i.project.DisplayPath,
		plural(i.project.SessionCount, "session"),
		relTime(i.project.LastActivity))
}

type sessionListItem struct {
	session models.Session
}

func (i sessionListItem) FilterValue() string {
	return i.session.ID + " " + i.session.Model
}

func (i sessionListItem) Title() string {
	title := i.session.ID
	if i.session.IsAgent {
		title = "↳ " + title
	}
	if i.session.Model != "" {
		title += "  " + i.session.Model
	}
	return title
}

func (i sessionListItem) Description() string {
	desc := fmt.Sprintf("%s | started %s | updated %s",
		plural(i.session.MessageCount, "message"),
		relTime(i.session.StartTime),
		humanize.Time(i.session.LastModified))
	if d, ok := i.session.Duration(); ok {
		desc += " | " + formatDuration(d)
	}
	return desc
}

type titledItem interface {
	list.Item
	Title() string
	Description() string
}

// itemDelegate highlights the project for the current directory and dims
// orphans.
type itemDelegate struct {
	list.DefaultDelegate
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(titledItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := it.Title()
	desc := it.Description()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	case isCurrentDir(item):
		title = currentDirItemStyle.Render(title)
		desc = itemStyle.Render(desc)
	case isOrphan(item):
		title = orphanItemStyle.Render(title)
		desc = orphanItemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func isCurrentDir(item list.Item) bool {
	p, ok := item.(projectListItem)
	return ok && p.currentDir
}

func isOrphan(item list.Item) bool {
	p, ok := item.(projectListItem)
	return ok && p.project.IsOrphan
}

func newList(items []list.Item, width, height int) list.Model {
	delegate := itemDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, height)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	return l
}

func createProjectList(projects []models.Project, cwd string, width, height int) list.Model {
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectListItem{project: p, currentDir: cwd != "" && p.Path == cwd}
	}
	l := newList(items, width, height)
	l.SetFilteringEnabled(true)
	return l
}

func createSessionList(sessions []models.Session, width, height int) list.Model {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionListItem{session: s}
	}
	l := newList(items, width, height)
	l.SetFilteringEnabled(false) // filter line parses dates and types instead
	return l
}

func (m Model) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.projects.FilterState() != list.Filtering {
		switch msg.String() {
		case "enter":
			if selected, ok := m.projects.SelectedItem().(projectListItem); ok {
				p := selected.project
				m.project = &p
				m.filter = SessionFilter{}
				m.filterInput.SetValue("")
				m.status = ""
				return m, loadSessions(m.ctx, m.explorer, p.ID, m.filter)
			}
			return m, nil

		case "R":
			m.status = "Reloaded"
			return m, loadProjects(m.ctx, m.explorer)
		}
	}

	var cmd tea.Cmd
	m.projects, cmd = m.projects.Update(msg)
	return m, cmd
}

func (m Model) updateSessions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			m.filter = ParseSessionFilter(m.filterInput.Value(), m.explorer.Now().In(m.explorer.Location()))
			return m, loadSessions(m.ctx, m.explorer, m.project.ID, m.filter)
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if selected, ok := m.sessions.SelectedItem().(sessionListItem); ok {
			return m, loadSessionDetail(m.ctx, m.explorer, *m.project, selected.session.ID)
		}
		return m, nil

	case "/":
		m.filtering = true
		return m, m.filterInput.Focus()

	case "esc":
		if !m.filter.IsZero() {
			m.filter = SessionFilter{}
			m.filterInput.SetValue("")
			return m, loadSessions(m.ctx, m.explorer, m.project.ID, m.filter)
		}
		return m.back(), nil

	case "y":
		if selected, ok := m.sessions.SelectedItem().(sessionListItem); ok {
			return m, copyToClipboard(selected.session.ID, "Session id copied")
		}
		return m, nil

	case "R":
		m.status = "Reloaded"
		return m, loadSessions(m.ctx, m.explorer, m.project.ID, m.filter)
	}

	var cmd tea.Cmd
	m.sessions, cmd = m.sessions.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	var b strings.Builder

	switch m.mode {
	case projectView:
		if len(m.projectItems) == 0 {
			b.WriteString("No projects found under " + m.explorer.Layout().Root + "\n")
		} else {
			b.WriteString(m.projects.View() + "\n")
		}
		b.WriteString(helpStyle.Render("↑/k up • ↓/j down • enter sessions • / filter • R reload • q quit • ? more"))

	case sessionView:
		header := titleStyle.Render(m.project.Name) + " " + timestampStyle.Render(m.project.DisplayPath)
		b.WriteString(header + "\n")
		if m.filtering {
			b.WriteString(m.filterInput.View() + "\n")
		}
		if len(m.sessionItems) == 0 {
			b.WriteString("No sessions match.\n")
		} else {
			b.WriteString(m.sessions.View() + "\n")
		}
		b.WriteString(helpStyle.Render("enter open • / filter • y copy id • esc back • q back • ? more"))
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	return b.String()
}

func relTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.Time(*t)
}

func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Minute).String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), word)
}
