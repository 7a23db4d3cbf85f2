package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <project-id> <session-id>",
	Short: "Export a session to markdown",
	Long: `Export a Claude Code session to a markdown file.

By default exports to current directory as session-<id>.md.
Use --output to specify a custom path, or - for stdout.

Examples:
  ccscope export -Users-sam-app 0ccfddc4-00e7-443a-bb82-58ede5936619
  ccscope export -Users-sam-app 0ccfddc4-00e7-443a-bb82-58ede5936619 -o session.md`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: session-<id>.md in current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	projectID, sessionID := args[0], args[1]

	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	detail, err := a.explorer.GetSession(ctx, projectID, sessionID)
	if err != nil {
		return err
	}
	msgs, err := a.explorer.AllMessages(ctx, projectID, sessionID)
	if err != nil {
		return err
	}

	content := renderMarkdown(detail, msgs, a.explorer.Location())
	if exportOutput == "-" {
		fmt.Print(content)
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	outputPath := exportOutput
	if outputPath == "" {
		outputPath = filepath.Join(cwd, fmt.Sprintf("session-%s.md", shortID(sessionID)))
	} else if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cwd, outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Exported session to: %s\n", outputPath)
	return nil
}

func renderMarkdown(s *models.SessionDetail, msgs []models.Message, loc *time.Location) string {
	var b strings.Builder

	title := firstPrompt(msgs)
	if title == "" {
		title = "Session " + s.ID
	}
	b.WriteString("# ")
	b.WriteString(truncate(title, 80))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**Session ID:** `%s`  \n", s.ID)
	fmt.Fprintf(&b, "**Project:** `%s`  \n", s.ProjectPath)
	if s.ParentSessionID != "" {
		fmt.Fprintf(&b, "**Parent session:** `%s`  \n", s.ParentSessionID)
	}
	fmt.Fprintf(&b, "**Started:** %s  \n", stamp(s.StartTime, loc))
	fmt.Fprintf(&b, "**Ended:** %s  \n", stamp(s.EndTime, loc))
	if s.Metadata.Model != "" {
		fmt.Fprintf(&b, "**Model:** %s  \n", s.Metadata.Model)
	}
	fmt.Fprintf(&b, "**Messages:** %d\n\n", s.MessageCount)
	b.WriteString("---\n\n")

	for _, m := range msgs {
		if m.Type == models.MessageTypeSummary {
			continue
		}

		ts := m.Timestamp
		b.WriteString("**")
		b.WriteString(strings.ToUpper(string(m.Type)))
		b.WriteString("**")
		b.WriteString(" _")
		b.WriteString(stamp(&ts, loc))
		b.WriteString("_\n\n")

		// Content (no truncation)
		if m.Text != "" {
			b.WriteString(m.Text)
			b.WriteString("\n\n")
		}

		b.WriteString("---\n\n")
	}

	return b.String()
}

func firstPrompt(msgs []models.Message) string {
	for _, m := range msgs {
		if m.Type == models.MessageTypeUser && strings.TrimSpace(m.Text) != "" {
			return m.Text
		}
	}
	return ""
}
