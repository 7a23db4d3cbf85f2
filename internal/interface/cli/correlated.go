package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/spf13/cobra"
)

var correlatedCmd = &cobra.Command{
	Use:   "correlated <session-id>",
	Short: "Show todos, file history, debug logs, plan and skill of a session",
	Long: `Gather what the other stores under ~/.claude hold for one session id.

Works for any id, including sessions whose transcript is gone.`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrelated,
}

var envCmd = &cobra.Command{
	Use:   "env <session-id>",
	Short: "Show the environment captured for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnv,
}

var backupCmd = &cobra.Command{
	Use:   "backup <session-id> <backup-name>",
	Short: "Print a file-history backup",
	Long: `Print the content of one file-history backup, for example

  ccscope backup 6f1c2d3e-... 3f2a9c1b@v2`,
	Args: cobra.ExactArgs(2),
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(correlatedCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(backupCmd)
}

func runCorrelated(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	data, err := a.explorer.CorrelatedData(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(data)
	}
	printCorrelated(data, a.explorer.Location())
	return nil
}

func printCorrelated(data *models.CorrelatedData, loc *time.Location) {
	if data == nil {
		return
	}

	fmt.Println()
	fmt.Printf("Todos (%d)\n", len(data.Todos))
	for _, t := range data.Todos {
		fmt.Printf("  [%s] %s\n", t.Status, t.Content)
	}

	fmt.Println()
	fmt.Printf("File history (%d)\n", len(data.FileHistory))
	for _, f := range data.FileHistory {
		backup := "-"
		if f.BackupFileName != nil {
			backup = *f.BackupFileName
		}
		fmt.Printf("  v%-3d %-8s %s  %s  %s\n", f.Version, f.Action, f.FilePath, backup, stamp(f.BackupTime, loc))
	}

	fmt.Println()
	fmt.Printf("Debug logs (%d)\n", len(data.DebugLogs))
	for _, d := range data.DebugLogs {
		suffix := ""
		if d.Truncated {
			suffix = " (truncated)"
		}
		fmt.Printf("  %s, %d chars%s\n", d.Name, len([]rune(d.Content)), suffix)
	}

	fmt.Println()
	if data.LinkedPlan != nil {
		fmt.Printf("Plan:  %s\n", *data.LinkedPlan)
	} else {
		fmt.Println("Plan:  -")
	}
	if data.LinkedSkill != nil {
		fmt.Printf("Skill: %s\n", *data.LinkedSkill)
	} else {
		fmt.Println("Skill: -")
	}
}

func runEnv(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	env, err := a.explorer.Environment(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(env)
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, env[k])
	}
	return nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	content, err := a.explorer.BackupContent(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(map[string]string{"name": args[1], "content": content})
	}
	fmt.Print(content)
	return nil
}
