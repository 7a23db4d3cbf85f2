package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/charmbracelet/lipgloss"
	"github.com/neilberkman/ccscope/internal/core/activity"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/spf13/cobra"
)

var (
	activityDays  int
	activitySince string
	activityUntil string
	activityType  string
	activityList  bool
)

const barWidth = 40

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	countStyle = lipgloss.NewStyle().Bold(true)
)

var activityCmd = &cobra.Command{
	Use:   "activity [project-id]",
	Short: "Show sessions per day",
	Long: `Show a day-by-day timeline of sessions, newest day first.

With a project id the timeline covers the last --days days (default 14,
max 90) of regular sessions. Without one it covers every project between
--since and --until.

Examples:
  ccscope activity -Users-sam-app --days 30
  ccscope activity --since "last week"
  ccscope activity --since 2024-01-01 --until 2024-01-31 --type agent`,
	Args: cobra.MaximumNArgs(1),
	RunE: runActivity,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize activity per project and per day",
	Long: `Render a text summary of activity across every project.

The output is a mustache template; set summary_template in the config file
to change it. Available fields: start, end, total_sessions, total_messages,
project_count, projects (name, path, sessions, messages) and days (date,
sessions, messages).`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(summaryCmd)

	activityCmd.Flags().IntVar(&activityDays, "days", 0, "Days to look back for a project (default 14, max 90)")
	activityCmd.Flags().BoolVar(&activityList, "sessions", false, "List the sessions of each day")
	for _, c := range []*cobra.Command{activityCmd, summaryCmd} {
		c.Flags().StringVar(&activitySince, "since", "", "First day (YYYY-MM-DD or natural language)")
		c.Flags().StringVar(&activityUntil, "until", "", "Last day, inclusive")
		c.Flags().StringVar(&activityType, "type", "", "all, regular or agent")
	}
}

// dateRange turns the --since/--until flags into the inclusive
// YYYY-MM-DD bounds the explorer takes.
func dateRange(a *app) (string, string, error) {
	loc := a.explorer.Location()
	now := a.explorer.Now()

	since, err := parseDateFlag("since", activitySince, now, loc)
	if err != nil {
		return "", "", err
	}
	until, err := parseDateFlag("until", activityUntil, now, loc)
	if err != nil {
		return "", "", err
	}
	var start, end string
	if since != nil {
		start = since.In(loc).Format(activity.DateLayout)
	}
	if until != nil {
		end = until.In(loc).Format(activity.DateLayout)
	}
	return start, end, nil
}

func runActivity(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var report *models.ActivityReport
	if len(args) == 1 {
		report, err = a.explorer.ProjectActivity(ctx, args[0], activityDays, activityType)
	} else {
		var start, end string
		start, end, err = dateRange(a)
		if err != nil {
			return err
		}
		if start == "" && activityDays > 0 {
			start = a.explorer.Now().In(a.explorer.Location()).AddDate(0, 0, -activityDays).Format(activity.DateLayout)
		}
		report, err = a.explorer.GlobalActivity(ctx, start, end, activityType)
	}
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(report)
	}

	if len(report.Days) == 0 {
		fmt.Println("No activity in this range")
		return nil
	}

	fmt.Printf("%s, %s\n\n", plural(report.Summary.TotalSessions, "session"), plural(report.Summary.TotalMessages, "message"))
	for _, day := range report.Days {
		fmt.Println(renderBar(day, report.Summary.MaxDailyMessages))
		if activityList {
			for _, s := range day.Sessions {
				fmt.Printf("             %s  %-20s %s\n", shortID(s.ID), truncate(s.ProjectName, 20), plural(s.MessageCount, "message"))
			}
		}
	}
	return nil
}

// renderBar draws one day scaled against the busiest day.
func renderBar(day models.DailyActivity, maxMessages int) string {
	width := 0
	if maxMessages > 0 {
		width = day.MessageCount * barWidth / maxMessages
	}
	if width == 0 && day.MessageCount > 0 {
		width = 1
	}
	return fmt.Sprintf("%s %s %s",
		dateStyle.Render(day.Date),
		barStyle.Render(strings.Repeat("█", width)+strings.Repeat(" ", barWidth-width)),
		countStyle.Render(fmt.Sprintf("%d msgs / %d sessions", day.MessageCount, day.SessionCount)),
	)
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	start, end, err := dateRange(a)
	if err != nil {
		return err
	}
	summary, err := a.explorer.ActivitySummary(cmd.Context(), start, end, activityType)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(summary)
	}

	out, err := renderSummary(a.cfg.SummaryTemplate, summary, a.explorer.Location())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func renderSummary(tmpl string, s *models.ActivitySummary, loc *time.Location) (string, error) {
	bound := func(t *time.Time, def string) string {
		if t == nil {
			return def
		}
		return t.In(loc).Format(activity.DateLayout)
	}

	projects := make([]map[string]any, len(s.ProjectBreakdown))
	for i, p := range s.ProjectBreakdown {
		projects[i] = map[string]any{
			"name":     p.ProjectName,
			"path":     p.ProjectPath,
			"sessions": p.SessionCount,
			"messages": p.MessageCount,
		}
	}
	days := make([]map[string]any, len(s.DailyBreakdown))
	for i, d := range s.DailyBreakdown {
		days[i] = map[string]any{
			"date":     d.Date,
			"sessions": d.SessionCount,
			"messages": d.MessageCount,
		}
	}

	data := map[string]any{
		"start":          bound(s.DateRange.Start, "the beginning"),
		"end":            bound(s.DateRange.End, "now"),
		"total_sessions": s.TotalSessions,
		"total_messages": s.TotalMessages,
		"project_count":  len(s.ProjectBreakdown),
		"projects":       projects,
		"days":           days,
	}

	out, err := mustache.Render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("failed to render summary template: %w", err)
	}
	return out, nil
}
