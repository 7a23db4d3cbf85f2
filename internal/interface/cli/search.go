package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/neilberkman/ccscope/internal/core/db"
	"github.com/neilberkman/ccscope/internal/core/search"
	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	searchProject string
	searchCode    bool
	searchPrompts bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the last snapshot",
	Long: `Search messages (or prompts) in the snapshot written by 'ccscope snapshot'.

Uses FTS5 with porter stemming for natural language; --code switches to
the unstemmed index that keeps identifiers whole. Queries containing
characters FTS5 cannot parse (such as - _ / .) fall back to substring
matching.

Examples:
  ccscope search "authentication implementation"
  ccscope search --code "getUser*"
  ccscope search --prompts migration
  ccscope search "ENA-7030" --project -Users-sam-app`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchProject, "project", "", "Only this project id")
	searchCmd.Flags().BoolVar(&searchCode, "code", false, "Use the code index (no stemming)")
	searchCmd.Flags().BoolVar(&searchPrompts, "prompts", false, "Search prompt history instead of messages")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	opts := search.Options{ProjectID: searchProject, Limit: searchLimit}

	if searchPrompts {
		results, err := search.SearchPrompts(database, query, opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(results)
		}
		if len(results) == 0 {
			fmt.Printf("No prompts found for: %s\n", query)
			return nil
		}
		for _, r := range results {
			fmt.Printf("%s  %s\n", r.Timestamp, r.ProjectPath)
			fmt.Printf("  %s\n\n", truncate(r.Display, 200))
		}
		return nil
	}

	find := search.Search
	if searchCode {
		find = search.SearchCode
	}
	results, err := find(database, query, opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for: %s\n", query)
		return nil
	}

	fmt.Printf("Found %d match(es) for: %s\n", len(results), query)
	if last, err := database.LastExport(); err == nil && last != nil {
		fmt.Printf("Snapshot taken %s\n", relTime(&last.ExportedAt))
	}
	fmt.Println()

	// group consecutive hits of one session
	var current string
	for _, r := range results {
		if r.SessionID != current {
			current = r.SessionID
			fmt.Printf("=== %s (%s) ===\n", r.SessionID, r.ProjectPath)
		}
		ts := r.Timestamp
		if t, err := time.Parse(db.TimeLayout, ts); err == nil {
			ts = relTime(&t)
		}
		fmt.Printf("  [%s] %s\n", r.Type, ts)
		fmt.Printf("  %s\n\n", truncate(r.MessageText, 200))
	}
	return nil
}
