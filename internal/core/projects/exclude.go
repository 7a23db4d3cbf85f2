package projects

import (
	"fmt"
	"strings"

	"github.com/moby/patternmatcher"
)

// Excluder hides projects whose real path matches any of a set of
// .dockerignore-style patterns. A pattern matching a parent directory hides
// everything below it.
type Excluder struct {
	pm *patternmatcher.PatternMatcher
}

// NewExcluder compiles patterns. No patterns means nothing is excluded.
func NewExcluder(patterns []string) (*Excluder, error) {
	var cleaned []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cleaned = append(cleaned, relative(p))
	}
	if len(cleaned) == 0 {
		return &Excluder{}, nil
	}
	pm, err := patternmatcher.New(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to compile exclude patterns: %w", err)
	}
	return &Excluder{pm: pm}, nil
}

// Excluded reports whether path is hidden. Match errors hide nothing.
func (e *Excluder) Excluded(path string) bool {
	if e == nil || e.pm == nil {
		return false
	}
	ok, err := e.pm.MatchesOrParentMatches(relative(path))
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("exclude match failed")
		return false
	}
	return ok
}

// patternmatcher works on relative paths; absolute project paths are
// matched from the filesystem root.
func relative(p string) string {
	if strings.HasPrefix(p, "!") {
		return "!" + strings.TrimLeft(p[1:], "/")
	}
	return strings.TrimLeft(p, "/")
}
