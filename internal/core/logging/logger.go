package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// LevelEnv overrides the configured log level.
const LevelEnv = "CCSCOPE_LOG_LEVEL"

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	base     *logrus.Logger
	level    = logrus.WarnLevel
	output   io.Writer = os.Stderr
	useJSON  bool
	jsonOnce sync.Once
)

// NewLogger returns the logger for a component. Loggers are created once per
// component and share one underlying logrus.Logger.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := baseLogger().WithField("component", component)
	loggers[component] = logger
	return logger
}

// SetLevel sets the level from a config value. The environment variable
// still wins. Unknown names are ignored.
func SetLevel(name string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if env := os.Getenv(LevelEnv); env != "" {
		name = env
	}
	parsed, err := logrus.ParseLevel(name)
	if err != nil {
		return
	}
	level = parsed
	if base != nil {
		base.SetLevel(level)
	}
}

// SetOutput redirects all loggers, mainly for tests and the TUI.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	output = w
	if base != nil {
		base.SetOutput(w)
	}
}

func baseLogger() *logrus.Logger {
	if base != nil {
		return base
	}

	jsonOnce.Do(func() {
		useJSON = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	})

	base = logrus.New()
	base.SetOutput(output)

	if env := os.Getenv(LevelEnv); env != "" {
		if parsed, err := logrus.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	base.SetLevel(level)

	if useJSON {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
	return base
}
