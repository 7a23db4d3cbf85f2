package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// DefaultSummaryTemplate renders `ccscope summary`.
const DefaultSummaryTemplate = `Activity {{start}} to {{end}}
{{total_sessions}} sessions, {{total_messages}} messages across {{project_count}} projects
{{#projects}}
  {{name}}: {{sessions}} sessions, {{messages}} messages
{{/projects}}
{{^projects}}
  No activity in this range.
{{/projects}}
`

const (
	DefaultLimit      = 50
	DefaultMaxWorkers = 8
)

// ClaudeDirEnv overrides the archive root.
const ClaudeDirEnv = "CLAUDE_DIR"

type Config struct {
	ClaudeDir       string   // archive root, normally ~/.claude
	ClaudeConfig    string   // global config file, normally ~/.claude.json
	Timezone        string   // IANA name used for day bucketing
	DefaultLimit    int      // page size when a command gets no --limit
	MaxWorkers      int      // parallel file scans
	ExcludeProjects []string // patterns hiding projects from listings
	LogLevel        string
	SummaryTemplate string
}

type tomlConfig struct {
	ClaudeDir       string   `toml:"claude_dir"`
	ClaudeConfig    string   `toml:"claude_config"`
	Timezone        string   `toml:"timezone"`
	DefaultLimit    int      `toml:"default_limit"`
	MaxWorkers      int      `toml:"max_workers"`
	ExcludeProjects []string `toml:"exclude_projects"`
	LogLevel        string   `toml:"log_level"`
	SummaryTemplate string   `toml:"summary_template"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		Timezone:        "UTC",
		DefaultLimit:    DefaultLimit,
		MaxWorkers:      DefaultMaxWorkers,
		LogLevel:        "warn",
		SummaryTemplate: DefaultSummaryTemplate,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.ClaudeDir = filepath.Join(home, ".claude")
		cfg.ClaudeConfig = filepath.Join(home, ".claude.json")
	}
	return cfg
}

// Path returns the default config file location.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ccscope", "config.toml")
}

// Load reads config from ~/.config/ccscope/
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads config from path. A missing or invalid file yields the
// defaults; the environment override is applied either way.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var tc tomlConfig
			if _, err := toml.DecodeFile(path, &tc); err == nil {
				cfg.merge(tc)
			}
		}
	}

	if dir := os.Getenv(ClaudeDirEnv); dir != "" {
		cfg.ClaudeDir = ExpandHome(dir)
	}

	return cfg, nil
}

func (c *Config) merge(tc tomlConfig) {
	if tc.ClaudeDir != "" {
		c.ClaudeDir = ExpandHome(tc.ClaudeDir)
	}
	if tc.ClaudeConfig != "" {
		c.ClaudeConfig = ExpandHome(tc.ClaudeConfig)
	}
	if tc.Timezone != "" {
		c.Timezone = tc.Timezone
	}
	if tc.DefaultLimit > 0 {
		c.DefaultLimit = tc.DefaultLimit
	}
	if tc.MaxWorkers > 0 {
		c.MaxWorkers = tc.MaxWorkers
	}
	if len(tc.ExcludeProjects) > 0 {
		c.ExcludeProjects = tc.ExcludeProjects
	}
	if tc.LogLevel != "" {
		c.LogLevel = tc.LogLevel
	}
	if tc.SummaryTemplate != "" {
		c.SummaryTemplate = tc.SummaryTemplate
	}
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "UTC") {
		return time.UTC
	}
	if strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
