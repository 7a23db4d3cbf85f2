package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/ccscope/internal/core/db"
	"github.com/neilberkman/ccscope/internal/core/exporter"
	"github.com/spf13/cobra"
)

var (
	dbPath        string
	snapshotQuiet bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write a SQLite snapshot of the archive",
	Long: `Export projects, sessions, messages, daily activity and prompt history
into a SQLite database for ad hoc SQL and full-text search.

The snapshot is replaced on every run. ccscope itself never reads it except
for 'ccscope search'.

Examples:
  ccscope snapshot
  ccscope snapshot --db ./claude.db
  sqlite3 ~/.config/ccscope/snapshot.db 'select * from daily_activity'`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	defaultDB := filepath.Join(home, ".config", "ccscope", "snapshot.db")

	snapshotCmd.Flags().StringVar(&dbPath, "db", defaultDB, "Database path")
	snapshotCmd.Flags().BoolVarP(&snapshotQuiet, "quiet", "q", false, "No progress bar")
	searchCmd.Flags().StringVar(&dbPath, "db", defaultDB, "Database path")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if !jsonOutput {
		fmt.Printf("Exporting from: %s\n", a.cfg.ClaudeDir)
		fmt.Printf("Database: %s\n\n", dbPath)
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	exp := exporter.New(a.explorer, database)

	var progress exporter.ProgressCallback
	if !snapshotQuiet && !jsonOutput {
		total, err := exp.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count sessions: %w", err)
		}
		progress = exporter.NewProgressReporter(os.Stdout, total)
	}

	res, err := exp.Export(ctx, progress)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read snapshot stats: %w", err)
	}
	if jsonOutput {
		return printJSON(map[string]any{"database": dbPath, "result": res, "stats": stats})
	}

	fmt.Println()
	fmt.Printf("Projects:  %s\n", humanize.Comma(int64(stats.TotalProjects)))
	fmt.Printf("Sessions:  %s (%s agents)\n", humanize.Comma(int64(stats.TotalSessions)), humanize.Comma(int64(stats.TotalAgentSessions)))
	fmt.Printf("Messages:  %s\n", humanize.Comma(int64(stats.TotalMessages)))
	fmt.Printf("Prompts:   %s\n", humanize.Comma(int64(stats.TotalPrompts)))
	if stats.MostActiveProject != "" {
		fmt.Printf("Busiest:   %s (%s)\n", stats.MostActiveProject, plural(stats.MostActiveProjectCount, "session"))
	}
	if res.Skipped > 0 {
		fmt.Printf("Skipped:   %s (unreadable transcripts)\n", plural(res.Skipped, "session"))
	}
	if info, err := os.Stat(dbPath); err == nil {
		fmt.Printf("Size:      %s\n", humanize.Bytes(uint64(info.Size())))
	}
	return nil
}
