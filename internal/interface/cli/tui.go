package cli

import (
	"fmt"
	"os"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/ccscope/internal/interface/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI browser",
	Long:  "Browse projects, sessions and their correlated data in a terminal UI",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	model := tui.New(cmd.Context(), a.explorer)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if m, ok := finalModel.(tui.Model); ok && m.LaunchSessionID != "" {
		return execClaude(m.LaunchSessionID, m.LaunchProjectPath, m.LaunchFork)
	}
	return nil
}

// execClaude replaces this process with `claude --resume` run from the
// project directory.
func execClaude(sessionID, projectPath string, fork bool) error {
	cmd := tui.ResumeCommand(sessionID, fork)
	fmt.Fprintf(os.Stderr, "[ccscope] cd %s && %s\n", projectPath, cmd)

	if projectPath != "" {
		if err := os.Chdir(projectPath); err != nil {
			return fmt.Errorf("failed to cd to %s: %w", projectPath, err)
		}
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}

	// login shell so version managers (asdf, mise) put claude on PATH
	return syscall.Exec(shell, []string{shell, "-l", "-c", cmd}, os.Environ())
}
