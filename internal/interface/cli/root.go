package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/config"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/explorer"
	"github.com/neilberkman/ccscope/internal/core/logging"
	"github.com/spf13/cobra"
)

var (
	claudeDir   string
	configPath  string
	jsonOutput  bool
	tzName      string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the exit status. Not-found and bad-input
// errors are expected outcomes and get a single line.
func report(err error) int {
	switch ccerrors.GetCode(err) {
	case ccerrors.ErrCodeNotFound:
		fmt.Fprintf(os.Stderr, "not found: %s\n", err)
	case ccerrors.ErrCodeInvalidInput:
		fmt.Fprintf(os.Stderr, "invalid input: %s\n", err)
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "ccscope",
	Short: "Explore a Claude Code data directory",
	Long: `ccscope - browse projects, sessions and everything Claude Code keeps about them

Reads ~/.claude and ~/.claude.json on every query and never writes to them.
Sessions are correlated with their todos, file-history backups, debug logs,
plans and skills; activity is rolled up per day.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&claudeDir, "claude-dir", "", "Claude Code data directory (default ~/.claude, or $CLAUDE_DIR)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "ccscope config file (default ~/.config/ccscope/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON")
	rootCmd.PersistentFlags().StringVar(&tzName, "tz", "", "Time zone for day bucketing (IANA name, UTC or Local)")
}

// app is what every command needs: the resolved config and an explorer
// over the configured archive.
type app struct {
	cfg      *config.Config
	explorer *explorer.Explorer
}

func loadApp() (*app, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(config.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if claudeDir != "" {
		cfg.ClaudeDir = config.ExpandHome(claudeDir)
		cfg.ClaudeConfig = ""
	}
	if tzName != "" {
		if _, err := time.LoadLocation(tzName); err != nil && tzName != "Local" && tzName != "local" {
			return nil, ccerrors.InvalidInput("tz", tzName, "unknown time zone")
		}
		cfg.Timezone = tzName
	}

	logging.SetLevel(cfg.LogLevel)

	e := explorer.New(archive.NewLayout(cfg.ClaudeDir, cfg.ClaudeConfig),
		explorer.WithLocation(cfg.Location()),
		explorer.WithMaxWorkers(cfg.MaxWorkers),
		explorer.WithExcludes(cfg.ExcludeProjects),
	)
	return &app{cfg: cfg, explorer: e}, nil
}

// limit applies the configured default page size when --limit was not set.
func (a *app) limit(flag int) int {
	if flag == 0 {
		return a.cfg.DefaultLimit
	}
	return flag
}
