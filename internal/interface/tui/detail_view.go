package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/neilberkman/ccscope/internal/core/models"
)

const stampLayout = "2006-01-02 15:04:05"

// ResumeCommand is the claude invocation that resumes a session.
func ResumeCommand(sessionID string, fork bool) string {
	cmd := "claude --resume " + sessionID
	if fork {
		cmd += " --fork-session"
	}
	return cmd
}

// resumeCommandIn prefixes ResumeCommand with a cd into dir.
func resumeCommandIn(dir, sessionID string) string {
	if dir == "" {
		return ResumeCommand(sessionID, false)
	}
	return fmt.Sprintf("cd %s && %s", shellQuote(dir), ResumeCommand(sessionID, false))
}

func shellQuote(s string) string {
	if !strings.ContainsAny(s, " \t'\"$`\\&;|*?()<>") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func copyToClipboard(text, confirmation string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			// No clipboard (e.g. over ssh): show the text so it can be copied by hand.
			return statusMsg("No clipboard: " + text)
		}
		return statusMsg(confirmation)
	}
}

// renderDetail lays out a session: metadata, correlated data, then the
// transcript.
func renderDetail(d *sessionDetail, loc *time.Location, width int) string {
	var b strings.Builder
	s := d.Session
	rule := strings.Repeat("─", max(width, 20))

	b.WriteString(titleStyle.Render("Session "+s.ID) + "\n")
	field := func(label, value string) {
		if value != "" {
			b.WriteString(labelStyle.Render(label) + value + "\n")
		}
	}
	field("Project", d.Project.DisplayPath)
	if s.ParentSessionID != "" {
		field("Parent", s.ParentSessionID)
	}
	field("Started", stamp(s.StartTime, loc))
	field("Ended", stamp(s.EndTime, loc))
	if s.Duration != nil {
		field("Duration", formatDuration(time.Duration(*s.Duration)*time.Millisecond))
	}
	field("Messages", humanize.Comma(int64(s.MessageCount)))
	field("Model", s.Metadata.Model)
	if s.Metadata.TotalTokens > 0 {
		field("Tokens", humanize.Comma(int64(s.Metadata.TotalTokens)))
	}
	field("Tools", strings.Join(s.Metadata.ToolsUsed, ", "))
	if len(s.SubAgentIDs) > 0 {
		field("Sub-agents", strings.Join(s.SubAgentIDs, ", "))
	}

	if c := s.CorrelatedData; c != nil {
		renderCorrelated(&b, c, loc)
	}

	b.WriteString("\n" + rule + "\n\n")

	wrapWidth := max(width-4, 40)
	for _, msg := range d.Messages {
		style, label := messageStyle(msg.Type)
		b.WriteString(style.Render("▸ " + label))
		b.WriteString(" ")
		b.WriteString(timestampStyle.Render(msg.Timestamp.In(loc).Format(stampLayout)))
		b.WriteString("\n")

		text := msg.Text
		if text == "" {
			text = timestampStyle.Render("(no text content)")
		}
		b.WriteString(wordwrap.String(text, wrapWidth))
		b.WriteString("\n\n")
	}

	return b.String()
}

func renderCorrelated(b *strings.Builder, c *models.CorrelatedData, loc *time.Location) {
	if len(c.Todos) > 0 {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Todos (%d)", len(c.Todos))) + "\n")
		for _, t := range c.Todos {
			b.WriteString("  " + todoLine(t) + "\n")
		}
	}

	if len(c.FileHistory) > 0 {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("File history (%d)", len(c.FileHistory))) + "\n")
		for _, f := range c.FileHistory {
			backup := "no backup"
			if f.BackupFileName != nil {
				backup = *f.BackupFileName
			}
			fmt.Fprintf(b, "  %-8s v%d  %s  %s\n", f.Action, f.Version, f.FilePath, timestampStyle.Render(backup))
		}
	}

	if len(c.DebugLogs) > 0 {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Debug logs (%d)", len(c.DebugLogs))) + "\n")
		for _, l := range c.DebugLogs {
			size := humanize.Bytes(uint64(len(l.Content)))
			if l.Truncated {
				size += ", truncated"
			}
			fmt.Fprintf(b, "  %s (%s)\n", l.Name, size)
		}
	}

	if c.LinkedPlan != nil {
		b.WriteString("\n" + labelStyle.Render("Plan") + *c.LinkedPlan + "\n")
	}
	if c.LinkedSkill != nil {
		b.WriteString(labelStyle.Render("Skill") + *c.LinkedSkill + "\n")
	}
}

func todoLine(t models.TodoItem) string {
	switch t.Status {
	case "completed":
		return todoDoneStyle.Render("✓ " + t.Content)
	case "in_progress":
		label := t.Content
		if t.ActiveForm != "" {
			label = t.ActiveForm
		}
		return todoActiveStyle.Render("▶ " + label)
	default:
		return todoPendingStyle.Render("○ " + t.Content)
	}
}

func messageStyle(t models.MessageType) (lipgloss.Style, string) {
	switch t {
	case models.MessageTypeUser:
		return userStyle, "USER"
	case models.MessageTypeAssistant:
		return assistantStyle, "ASSISTANT"
	case models.MessageTypeSystem:
		return systemStyle, "SYSTEM"
	default:
		return lipgloss.NewStyle(), strings.ToUpper(string(t))
	}
}

func stamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(stampLayout) + " (" + humanize.Time(*t) + ")"
}

// rerender redraws the detail content for the current width and search.
func (m Model) rerender() Model {
	base := renderDetail(m.detail, m.explorer.Location(), m.width)
	m.matchLines = findMatchLines(base, m.query)
	if m.matchIdx >= len(m.matchLines) {
		m.matchIdx = len(m.matchLines) - 1
	}
	if m.query == "" {
		m.viewport.SetContent(base)
		return m
	}

	current := -1
	if m.matchIdx >= 0 {
		current = m.matchLines[m.matchIdx]
	}
	m.viewport.SetContent(highlightContent(base, m.query, current))
	return m
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.query = ""
			m.matchIdx = -1
			return m.rerender(), nil
		}

		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if q := m.searchInput.Value(); q != m.query {
			m.query = q
			m.matchIdx = 0
			m = m.rerender()
			scrollToMatch(&m, true)
		}
		return m, cmd
	}

	s := m.detail.Session
	switch msg.String() {
	case "esc":
		if m.query != "" {
			m.query = ""
			m.searchInput.SetValue("")
			m.matchIdx = -1
			return m.rerender(), nil
		}
		return m.back(), nil

	case "/":
		m.searching = true
		return m, m.searchInput.Focus()

	case "n":
		if len(m.matchLines) > 0 {
			m.matchIdx = (m.matchIdx + 1) % len(m.matchLines)
			m = m.rerender()
			scrollToMatch(&m, false)
		}
		return m, nil

	case "N", "p":
		if len(m.matchLines) > 0 {
			m.matchIdx = (m.matchIdx - 1 + len(m.matchLines)) % len(m.matchLines)
			m = m.rerender()
			scrollToMatch(&m, false)
		}
		return m, nil

	case "r", "f":
		m.LaunchSessionID = s.ID
		m.LaunchProjectPath = m.detail.Project.Path
		m.LaunchFork = msg.String() == "f"
		return m, tea.Quit

	case "c":
		return m, copyToClipboard(resumeCommandIn(m.detail.Project.Path, s.ID), "Resume command copied to clipboard!")

	case "y":
		return m, copyToClipboard(s.ID, "Session id copied")

	case "P":
		if s.ParentSessionID != "" {
			return m, loadSessionDetail(m.ctx, m.explorer, m.detail.Project, s.ParentSessionID)
		}
		return m, nil

	case "g":
		m.viewport.GotoTop()
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	var footer string
	switch {
	case m.searching:
		footer = m.searchInput.View() + " " + matchCounter(m)
	case m.query != "":
		footer = helpStyle.Render(fmt.Sprintf("/%s %s • n next • N prev • esc clear", m.query, matchCounter(m)))
	default:
		footer = helpStyle.Render(fmt.Sprintf("%3.f%% • r resume • f fork • c copy resume cmd • y copy id • / search • esc back • ? more",
			m.viewport.ScrollPercent()*100))
	}

	out := m.viewport.View() + "\n" + footer
	if m.status != "" {
		out += "\n" + statusStyle.Render(m.status)
	}
	return out
}

func matchCounter(m Model) string {
	if m.query == "" {
		return ""
	}
	if len(m.matchLines) == 0 {
		return "(no matches)"
	}
	return fmt.Sprintf("(%d/%d)", m.matchIdx+1, len(m.matchLines))
}
