package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/ccscope/internal/core/catalog"
	"github.com/spf13/cobra"
)

var (
	statsDaily  bool
	statsModels bool
	statsSince  string
	statsUntil  string
	statsLimit  int

	historyProject string
	historySearch  string
	historySince   string
	historyUntil   string
	historyLimit   int
	historyOffset  int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Long: `Show usage statistics for the archive.

Prints stats-cache.json when Claude Code has written one, otherwise counts
computed from the transcripts. --daily buckets transcripts by modification
day; --models shows per-model token totals from ~/.claude.json.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the prompt history",
	Long: `Show prompts from ~/.claude/history.jsonl, newest first.

Examples:
  ccscope history --project app --search migration
  ccscope history --since yesterday`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var plansCmd = &cobra.Command{
	Use:   "plans [name]",
	Short: "List plans, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlans,
}

var skillsCmd = &cobra.Command{
	Use:   "skills [name]",
	Short: "List skills, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSkills,
}

var commandsCmd = &cobra.Command{
	Use:   "commands [name]",
	Short: "List custom slash commands, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCommands,
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins [name]",
	Short: "List installed plugins, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlugins,
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots [filename]",
	Short: "List shell snapshots, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshots,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(snapshotsCmd)

	statsCmd.Flags().BoolVar(&statsDaily, "daily", false, "Show per-day counts")
	statsCmd.Flags().BoolVar(&statsModels, "models", false, "Show per-model token usage")
	statsCmd.Flags().StringVar(&statsSince, "since", "", "First day for --daily")
	statsCmd.Flags().StringVar(&statsUntil, "until", "", "Last day for --daily")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 0, "Days for --daily (default 30, max 100)")

	historyCmd.Flags().StringVar(&historyProject, "project", "", "Only prompts whose project path contains this")
	historyCmd.Flags().StringVar(&historySearch, "search", "", "Only prompts containing this (case-insensitive)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only prompts at or after this date")
	historyCmd.Flags().StringVar(&historyUntil, "until", "", "Only prompts at or before this date")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of prompts (max 100)")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "Skip this many prompts")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	loc := a.explorer.Location()

	switch {
	case statsModels:
		usage := a.explorer.ModelUsage(ctx)
		if jsonOutput {
			return printJSON(usage)
		}
		models := make([]string, 0, len(usage))
		for m := range usage {
			models = append(models, m)
		}
		sort.Strings(models)
		if len(models) == 0 {
			fmt.Println("No model usage recorded")
		}
		for _, m := range models {
			u := usage[m]
			fmt.Printf("%s\n", m)
			fmt.Printf("  Input:          %s\n", humanize.Comma(u.InputTokens))
			fmt.Printf("  Output:         %s\n", humanize.Comma(u.OutputTokens))
			fmt.Printf("  Cache read:     %s\n", humanize.Comma(u.CacheReadInputTokens))
			fmt.Printf("  Cache creation: %s\n", humanize.Comma(u.CacheCreationInputTokens))
		}
		return nil

	case statsDaily:
		since, err := parseDateFlag("since", statsSince, a.explorer.Now(), loc)
		if err != nil {
			return err
		}
		until, err := parseDateFlag("until", statsUntil, a.explorer.Now(), loc)
		if err != nil {
			return err
		}
		days, err := a.explorer.DailyStats(ctx, since, endOfDay(until, loc), statsLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(days)
		}
		for _, d := range days {
			fmt.Printf("%s  %6s msgs  %4d sessions  %5s tool calls\n",
				d.Date, humanize.Comma(int64(d.MessageCount)), d.SessionCount, humanize.Comma(int64(d.ToolCallCount)))
		}
		return nil
	}

	usage, err := a.explorer.Stats(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(usage)
	}

	fmt.Println("Usage Statistics")
	fmt.Println("================")
	fmt.Println()
	if usage.Cached != nil {
		fmt.Println("Source:          stats-cache.json")
	} else {
		fmt.Println("Source:          computed from transcripts")
	}
	fmt.Printf("Total Sessions:  %s\n", humanize.Comma(int64(usage.TotalSessions)))
	fmt.Printf("Total Messages:  %s\n", humanize.Comma(int64(usage.TotalMessages)))
	if usage.LastComputedDate != "" {
		fmt.Printf("Computed:        %s\n", usage.LastComputedDate)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	loc := a.explorer.Location()

	since, err := parseDateFlag("since", historySince, a.explorer.Now(), loc)
	if err != nil {
		return err
	}
	until, err := parseDateFlag("until", historyUntil, a.explorer.Now(), loc)
	if err != nil {
		return err
	}

	page, err := a.explorer.History(cmd.Context(), catalog.HistoryQuery{
		Project: historyProject,
		Search:  historySearch,
		Since:   since,
		Until:   endOfDay(until, loc),
		Limit:   a.limit(historyLimit),
		Offset:  historyOffset,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(page)
	}

	if len(page.Data) == 0 {
		fmt.Println("No prompts found")
		return nil
	}
	for _, h := range page.Data {
		fmt.Printf("%s  %s\n", dateStyle.Render(stamp(h.Timestamp, loc)), h.ProjectPath)
		fmt.Printf("  %s\n\n", truncate(h.Display, 200))
	}
	fmt.Printf("%d-%d of %s\n", page.Meta.Offset+1, page.Meta.Offset+len(page.Data), plural(page.Meta.Total, "prompt"))
	return nil
}

func runPlans(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 1 {
		p, err := a.explorer.Plan(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		fmt.Print(p.Content)
		return nil
	}

	plans := a.explorer.Plans(ctx)
	if jsonOutput {
		return printJSON(plans)
	}
	if len(plans) == 0 {
		fmt.Println("No plans found")
		return nil
	}
	for _, p := range plans {
		modified := p.Modified
		fmt.Printf("%-50s %8s  %s\n", p.Name, humanize.Bytes(uint64(p.Size)), relTime(&modified))
	}
	return nil
}

func runSkills(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 1 {
		s, err := a.explorer.Skill(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}
		fmt.Print(s.Content)
		return nil
	}

	skills := a.explorer.Skills(ctx)
	if jsonOutput {
		return printJSON(skills)
	}
	if len(skills) == 0 {
		fmt.Println("No skills found")
		return nil
	}
	for _, s := range skills {
		link := ""
		if s.IsSymlink {
			link = " -> " + s.RealPath
		}
		fmt.Printf("%s%s\n", s.Name, link)
		if s.Description != "" {
			fmt.Printf("  %s\n", truncate(s.Description, 100))
		}
		if len(s.AllowedTools) > 0 {
			fmt.Printf("  tools: %s\n", strings.Join(s.AllowedTools, ", "))
		}
	}
	return nil
}

func runCommands(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 1 {
		c, err := a.explorer.Command(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(c)
		}
		fmt.Print(c.Content)
		return nil
	}

	commands := a.explorer.Commands(ctx)
	if jsonOutput {
		return printJSON(commands)
	}
	if len(commands) == 0 {
		fmt.Println("No commands found")
		return nil
	}
	for _, c := range commands {
		fmt.Printf("/%s\n", c.Name)
		if c.Description != "" {
			fmt.Printf("  %s\n", truncate(c.Description, 100))
		}
	}
	return nil
}

func runPlugins(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var plugins []catalog.Plugin
	if len(args) == 1 {
		p, err := a.explorer.Plugin(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		plugins = []catalog.Plugin{*p}
	} else {
		plugins = a.explorer.Plugins(ctx)
		if jsonOutput {
			return printJSON(plugins)
		}
	}
	if len(plugins) == 0 {
		fmt.Println("No plugins found")
		return nil
	}
	for _, p := range plugins {
		scope := ""
		if p.Scope != "" {
			scope = " (" + p.Scope + ")"
		}
		fmt.Printf("%s %s%s\n", p.Name, p.Version, scope)
		if p.InstallPath != "" {
			fmt.Printf("  %s\n", p.InstallPath)
		}
		if len(p.Skills) > 0 {
			fmt.Printf("  skills: %s\n", strings.Join(p.Skills, ", "))
		}
	}
	return nil
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 1 {
		s, err := a.explorer.ShellSnapshot(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}
		fmt.Print(s.Content)
		return nil
	}

	snaps := a.explorer.ShellSnapshots(ctx)
	if jsonOutput {
		return printJSON(snaps)
	}
	if len(snaps) == 0 {
		fmt.Println("No shell snapshots found")
		return nil
	}
	for _, s := range snaps {
		fmt.Printf("%-60s %-5s %8s  %s\n", s.Filename, s.Shell, humanize.Bytes(uint64(s.Size)), stamp(s.Timestamp, a.explorer.Location()))
	}
	return nil
}
