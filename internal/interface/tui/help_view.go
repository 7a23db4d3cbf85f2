package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?":
		return m.back(), nil
	}
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
ccscope - Help
══════════════

PROJECTS
────────
  ↑/↓, j/k     Navigate projects
  Enter        List the project's sessions
  /            Filter by name or path
  R            Reload from disk
  q            Quit

SESSIONS
────────
  Enter        Open session
  /            Filter: type:agent after:yesterday before:2024-11-01 <text>
  y            Copy session id to clipboard
  R            Reload from disk
  esc          Clear filter, then back to projects

SESSION DETAIL
──────────────
  r            Resume session in Claude Code
  f            Fork session (new session ID)
  c            Copy resume command to clipboard
  y            Copy session id to clipboard
  P            Open parent session (sub-agents)
  /            Search within session; n/N cycle matches
  j/k, d/u     Scroll
  g/G          Jump to top/bottom
  esc          Back to session list

Highlighted projects match the current directory; dimmed ones are
missing from ~/.claude.json.

Press esc or ? to return
`

	return helpStyle.Render(help)
}
