package cli

import (
	"fmt"

	"github.com/neilberkman/ccscope/internal/core/explorer"
	"github.com/spf13/cobra"
)

var (
	projectsSort   string
	projectsOrder  string
	projectsLimit  int
	projectsOffset int
	projectsPrefix []string
	projectConfig  bool
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Long: `List every project Claude Code has been used in.

Projects come from ~/.claude/projects and from ~/.claude.json. Directories
missing from the config are marked as orphans.

Examples:
  ccscope projects
  ccscope projects --sort name --order asc
  ccscope projects --prefix ~/work --limit 10`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

var projectCmd = &cobra.Command{
	Use:   "project <project-id>",
	Short: "Show a project with its recent sessions",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(projectCmd)

	projectsCmd.Flags().StringVar(&projectsSort, "sort", "lastActivity", "Sort by lastActivity, name or sessionCount")
	projectsCmd.Flags().StringVar(&projectsOrder, "order", "desc", "asc or desc")
	projectsCmd.Flags().IntVar(&projectsLimit, "limit", 0, "Maximum number of projects (max 100)")
	projectsCmd.Flags().IntVar(&projectsOffset, "offset", 0, "Skip this many projects")
	projectsCmd.Flags().StringSliceVar(&projectsPrefix, "prefix", nil, "Only projects under these paths")

	projectCmd.Flags().BoolVar(&projectConfig, "config", false, "Show the raw ~/.claude.json entry instead")
}

func runProjects(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	page, err := a.explorer.ListProjects(cmd.Context(), explorer.ProjectQuery{
		SortBy:       projectsSort,
		Order:        projectsOrder,
		Limit:        a.limit(projectsLimit),
		Offset:       projectsOffset,
		PathPrefixes: projectsPrefix,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(page)
	}

	if len(page.Data) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	fmt.Printf("Showing %d-%d of %s\n\n", page.Meta.Offset+1, page.Meta.Offset+len(page.Data), plural(page.Meta.Total, "project"))
	for _, p := range page.Data {
		marker := ""
		if p.IsOrphan {
			marker = " (orphan)"
		}
		if !p.HasSessionData {
			marker = " (no sessions on disk)"
		}
		fmt.Printf("%s%s\n", p.Name, marker)
		fmt.Printf("    ID:       %s\n", p.ID)
		fmt.Printf("    Path:     %s\n", p.DisplayPath)
		fmt.Printf("    Sessions: %d\n", p.SessionCount)
		fmt.Printf("    Active:   %s\n", relTime(p.LastActivity))
		fmt.Println()
	}
	if page.Meta.HasMore {
		fmt.Printf("... more with --offset %d\n", page.Meta.Offset+len(page.Data))
	}
	return nil
}

func runProject(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if projectConfig {
		path, entry, err := a.explorer.ProjectConfig(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"path": path, "config": entry})
	}

	p, err := a.explorer.GetProject(ctx, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(p)
	}

	loc := a.explorer.Location()
	fmt.Printf("%s\n", p.Name)
	fmt.Printf("Path:            %s\n", p.Path)
	fmt.Printf("Sessions:        %d (%d agents)\n", p.SessionCount, p.ActivitySummary.TotalAgentSessions)
	fmt.Printf("Messages:        %d\n", p.ActivitySummary.TotalMessages)
	fmt.Printf("First activity:  %s\n", stamp(p.ActivitySummary.DateRange.Start, loc))
	fmt.Printf("Last activity:   %s\n", stamp(p.ActivitySummary.DateRange.End, loc))
	if p.LastCost != nil {
		fmt.Printf("Last cost:       $%.2f\n", *p.LastCost)
	}
	if p.LastSessionID != "" {
		fmt.Printf("Last session:    %s\n", p.LastSessionID)
	}
	if p.IsOrphan {
		fmt.Println("Not in ~/.claude.json (orphan)")
	}

	if len(p.RecentSessions) > 0 {
		fmt.Println()
		fmt.Println("Recent sessions:")
		for _, s := range p.RecentSessions {
			kind := ""
			if s.IsAgent {
				kind = " [agent]"
			}
			fmt.Printf("  %s%s  %s  %s\n", s.ID, kind, plural(s.MessageCount, "message"), relTime(&s.LastModified))
		}
	}
	return nil
}
