package tui

import "github.com/charmbracelet/lipgloss"

// Global styles used across views
var (
	// List view styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	currentDirItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Bold(true).
				Foreground(lipgloss.Color("120")) // light green, contrasts with the purple selection

	orphanItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("243"))

	// Detail view styles
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("cyan")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green")).
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow")).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")) // lighter gray for dark terminals

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("111"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			Width(12)

	todoDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green"))

	todoActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow")).
			Bold(true)

	todoPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	// In-session search styles
	searchMatchStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("yellow")).
				Bold(true)

	searchCurrentMatchStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("226")).
				Foreground(lipgloss.Color("0")).
				Bold(true)

	// Status and help styles
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
