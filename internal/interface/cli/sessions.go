package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/ccscope/internal/core/explorer"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/spf13/cobra"
)

var (
	sessionsType   string
	sessionsSince  string
	sessionsUntil  string
	sessionsSort   string
	sessionsOrder  string
	sessionsLimit  int
	sessionsOffset int

	messagesType   string
	messagesLimit  int
	messagesOffset int
	messageID      string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions <project-id>",
	Short: "List a project's sessions",
	Long: `List the sessions (transcripts) of one project.

Examples:
  ccscope sessions -Users-sam-app
  ccscope sessions -Users-sam-app --type agent
  ccscope sessions -Users-sam-app --since "last week" --sort messageCount`,
	Args: cobra.ExactArgs(1),
	RunE: runSessions,
}

var sessionCmd = &cobra.Command{
	Use:   "session <project-id> <session-id>",
	Short: "Show a session with its metadata and correlated data",
	Args:  cobra.ExactArgs(2),
	RunE:  runSession,
}

var messagesCmd = &cobra.Command{
	Use:   "messages <project-id> <session-id>",
	Short: "List a session's messages",
	Args:  cobra.ExactArgs(2),
	RunE:  runMessages,
}

var agentsCmd = &cobra.Command{
	Use:   "agents <project-id> <session-id>",
	Short: "Show a session's sub-agents, or an agent's parent",
	Args:  cobra.ExactArgs(2),
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(agentsCmd)

	sessionsCmd.Flags().StringVar(&sessionsType, "type", "all", "all, regular or agent")
	sessionsCmd.Flags().StringVar(&sessionsSince, "since", "", "Only sessions starting at or after this date")
	sessionsCmd.Flags().StringVar(&sessionsUntil, "until", "", "Only sessions starting at or before this date")
	sessionsCmd.Flags().StringVar(&sessionsSort, "sort", "startTime", "startTime, endTime, messageCount or lastModified")
	sessionsCmd.Flags().StringVar(&sessionsOrder, "order", "desc", "asc or desc")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 0, "Maximum number of sessions (max 100)")
	sessionsCmd.Flags().IntVar(&sessionsOffset, "offset", 0, "Skip this many sessions")

	messagesCmd.Flags().StringVar(&messagesType, "type", "all", "all, user or assistant")
	messagesCmd.Flags().IntVar(&messagesLimit, "limit", 0, "Maximum number of messages (max 100)")
	messagesCmd.Flags().IntVar(&messagesOffset, "offset", 0, "Skip this many messages")
	messagesCmd.Flags().StringVar(&messageID, "id", "", "Show one message by uuid")
}

func runSessions(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	loc := a.explorer.Location()
	now := a.explorer.Now()

	since, err := parseDateFlag("since", sessionsSince, now, loc)
	if err != nil {
		return err
	}
	until, err := parseDateFlag("until", sessionsUntil, now, loc)
	if err != nil {
		return err
	}

	page, err := a.explorer.ListSessions(cmd.Context(), args[0], explorer.SessionQuery{
		Type:   sessionsType,
		Since:  since,
		Until:  endOfDay(until, loc),
		SortBy: sessionsSort,
		Order:  sessionsOrder,
		Limit:  a.limit(sessionsLimit),
		Offset: sessionsOffset,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(page)
	}

	if len(page.Data) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	fmt.Printf("Showing %d-%d of %s\n\n", page.Meta.Offset+1, page.Meta.Offset+len(page.Data), plural(page.Meta.Total, "session"))
	for _, s := range page.Data {
		printSessionLine(s, loc)
	}
	if page.Meta.HasMore {
		fmt.Printf("... more with --offset %d\n", page.Meta.Offset+len(page.Data))
	}
	return nil
}

func printSessionLine(s models.Session, loc *time.Location) {
	kind := ""
	if s.IsAgent {
		kind = " [agent of " + shortID(s.ParentSessionID) + "]"
	}
	fmt.Printf("%s%s\n", s.ID, kind)
	fmt.Printf("    Started:  %s\n", stamp(s.StartTime, loc))
	if d, ok := s.Duration(); ok {
		fmt.Printf("    Duration: %s\n", d.Round(time.Second))
	}
	fmt.Printf("    Messages: %d\n", s.MessageCount)
	if s.Model != "" {
		fmt.Printf("    Model:    %s\n", s.Model)
	}
	fmt.Println()
}

func runSession(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	s, err := a.explorer.GetSession(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(s)
	}

	loc := a.explorer.Location()
	fmt.Printf("Session %s\n", s.ID)
	fmt.Printf("Project:   %s\n", s.ProjectPath)
	if s.ParentSessionID != "" {
		fmt.Printf("Parent:    %s\n", s.ParentSessionID)
	}
	fmt.Printf("Started:   %s\n", stamp(s.StartTime, loc))
	fmt.Printf("Ended:     %s\n", stamp(s.EndTime, loc))
	if s.Duration != nil {
		fmt.Printf("Duration:  %s\n", (time.Duration(*s.Duration) * time.Millisecond).Round(time.Second))
	}
	fmt.Printf("Messages:  %d\n", s.MessageCount)
	fmt.Printf("Tokens:    %s\n", humanize.Comma(int64(s.Metadata.TotalTokens)))
	if s.Metadata.Model != "" {
		fmt.Printf("Model:     %s\n", s.Metadata.Model)
	}
	if len(s.Metadata.ToolsUsed) > 0 {
		fmt.Printf("Tools:     %s\n", strings.Join(s.Metadata.ToolsUsed, ", "))
	}
	if len(s.SubAgentIDs) > 0 {
		fmt.Printf("Agents:    %s\n", strings.Join(s.SubAgentIDs, ", "))
	}
	printCorrelated(s.CorrelatedData, loc)
	return nil
}

func runMessages(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	loc := a.explorer.Location()

	if messageID != "" {
		m, err := a.explorer.GetMessage(ctx, args[0], args[1], messageID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(m)
		}
		printMessage(*m, loc, 0)
		return nil
	}

	page, err := a.explorer.ListMessages(ctx, args[0], args[1], explorer.MessageQuery{
		Type:   messagesType,
		Limit:  a.limit(messagesLimit),
		Offset: messagesOffset,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(page)
	}

	for _, m := range page.Data {
		printMessage(m, loc, 400)
	}
	fmt.Printf("%d-%d of %s\n", page.Meta.Offset+1, page.Meta.Offset+len(page.Data), plural(page.Meta.Total, "message"))
	return nil
}

func printMessage(m models.Message, loc *time.Location, maxLen int) {
	ts := m.Timestamp
	fmt.Printf("[%s] %s  %s\n", strings.ToUpper(string(m.Type)), stamp(&ts, loc), m.UUID)
	text := m.Text
	if maxLen > 0 {
		text = truncate(text, maxLen)
	}
	if text != "" {
		fmt.Println(text)
	}
	fmt.Println()
}

func runAgents(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	links, err := a.explorer.SubAgents(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(links)
	}

	if links.ParentSessionID != "" {
		fmt.Printf("Parent session: %s\n", links.ParentSessionID)
		return nil
	}
	if len(links.SubAgents) == 0 {
		fmt.Println("No sub-agents")
		return nil
	}
	fmt.Printf("%s\n\n", plural(len(links.SubAgents), "sub-agent"))
	for _, s := range links.SubAgents {
		printSessionLine(s, a.explorer.Location())
	}
	return nil
}
