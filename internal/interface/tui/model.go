// Package tui is the interactive browser: projects, then a project's
// sessions, then one session with its correlated data and transcript.
package tui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/ccscope/internal/core/explorer"
	"github.com/neilberkman/ccscope/internal/core/models"
)

type viewMode int

const (
	projectView viewMode = iota
	sessionView
	detailView
	helpView
)

type Model struct {
	ctx      context.Context
	explorer *explorer.Explorer
	mode     viewMode
	prevMode viewMode // where help returns to
	width    int
	height   int
	err      error
	status   string
	cwd      string

	projects     list.Model
	projectItems []models.Project

	sessions     list.Model
	sessionItems []models.Session
	project      *models.Project
	filter       SessionFilter
	filterInput  textinput.Model
	filtering    bool

	viewport viewport.Model
	detail   *sessionDetail

	// In-session search
	searchInput textinput.Model
	searching   bool
	query       string
	matchLines  []int
	matchIdx    int

	// Set when the user asked to resume; the CLI execs claude after the
	// program exits.
	LaunchSessionID   string
	LaunchProjectPath string
	LaunchFork        bool
}

type sessionDetail struct {
	Project  models.Project
	Session  *models.SessionDetail
	Messages []models.Message
}

func New(ctx context.Context, e *explorer.Explorer) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	cwd, _ := os.Getwd()

	filterInput := textinput.New()
	filterInput.Placeholder = "type:agent after:yesterday before:2024-11-01 opus"
	filterInput.Prompt = "filter: "

	searchInput := textinput.New()
	searchInput.Placeholder = "search this session"
	searchInput.Prompt = "/"

	return Model{
		ctx:         ctx,
		explorer:    e,
		mode:        projectView,
		cwd:         cwd,
		projects:    createProjectList(nil, cwd, 0, 0),
		sessions:    createSessionList(nil, 0, 0),
		filterInput: filterInput,
		searchInput: searchInput,
		matchIdx:    -1,
	}
}

func (m Model) Init() tea.Cmd {
	return loadProjects(m.ctx, m.explorer)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.projects.SetSize(msg.Width, listHeight(msg.Height))
		m.sessions.SetSize(msg.Width, listHeight(msg.Height))
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight(msg.Height)
		if m.detail != nil {
			m = m.rerender()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.typing() {
			switch msg.String() {
			case "q":
				if m.mode == projectView {
					return m, tea.Quit
				}
				return m.back(), nil
			case "?":
				if m.mode != helpView {
					m.prevMode = m.mode
					m.mode = helpView
				}
				return m, nil
			}
		}

		switch m.mode {
		case projectView:
			return m.updateProjects(msg)
		case sessionView:
			return m.updateSessions(msg)
		case detailView:
			return m.updateDetail(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case tea.MouseMsg:
		if m.mode == detailView {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case projectsLoadedMsg:
		m.err = nil
		m.projectItems = msg.projects
		m.projects = createProjectList(msg.projects, m.cwd, m.width, listHeight(m.height))
		return m, nil

	case sessionsLoadedMsg:
		m.err = nil
		m.sessionItems = msg.sessions
		m.sessions = createSessionList(msg.sessions, m.width, listHeight(m.height))
		m.mode = sessionView
		return m, nil

	case sessionDetailLoadedMsg:
		m.err = nil
		m.detail = &msg.detail
		m.viewport = createViewport(m.width, m.height)
		m.query = ""
		m.matchLines = nil
		m.matchIdx = -1
		m = m.rerender()
		m.mode = detailView
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// typing reports whether keystrokes belong to a text field.
func (m Model) typing() bool {
	switch m.mode {
	case projectView:
		return m.projects.FilterState() == list.Filtering
	case sessionView:
		return m.filtering
	case detailView:
		return m.searching
	}
	return false
}

// back moves one level up.
func (m Model) back() Model {
	m.status = ""
	m.err = nil
	switch m.mode {
	case helpView:
		m.mode = m.prevMode
	case detailView:
		m.mode = sessionView
	case sessionView:
		m.mode = projectView
	}
	return m
}

func (m Model) View() string {
	var body string
	switch m.mode {
	case projectView, sessionView:
		body = m.viewList()
	case detailView:
		body = m.viewDetail()
	case helpView:
		body = m.viewHelp()
	}

	if m.err != nil {
		body += "\n" + errorStyle.Render("Error: "+m.err.Error())
	}
	return body
}

func listHeight(h int) int {
	return max(h-3, 0) // header, help and status lines
}
