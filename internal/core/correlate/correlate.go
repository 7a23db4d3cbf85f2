// Package correlate joins the stores that share a session id: todos, file
// history, debug logs, plans, skills, session environments and sub-agent
// transcripts. There is no referential integrity between them, so each
// lookup is independent and an empty result from one never affects another.
package correlate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/logging"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/sessions"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
	"golang.org/x/sync/errgroup"
)

var log = logging.NewLogger("correlate")

// Resolver looks up correlated data in one archive.
type Resolver struct {
	layout archive.Layout
}

// New returns a Resolver for layout.
func New(layout archive.Layout) *Resolver {
	return &Resolver{layout: layout}
}

// CanonicalID lower-cases a UUID session id the way Claude Code names its
// files. Other ids are returned unchanged.
func CanonicalID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// Resolve gathers everything keyed by sessionID. The lookups run
// concurrently; each tolerates a missing store.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (*models.CorrelatedData, error) {
	sessionID = CanonicalID(sessionID)
	data := &models.CorrelatedData{
		Todos:       []models.TodoItem{},
		FileHistory: []models.FileHistoryEntry{},
		DebugLogs:   []models.DebugLog{},
	}

	transcripts := r.Transcripts(sessionID)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.Todos = r.Todos(sessionID)
		return ctx.Err()
	})
	g.Go(func() error {
		data.FileHistory = r.FileHistory(sessionID, transcripts)
		return ctx.Err()
	})
	g.Go(func() error {
		data.DebugLogs = r.DebugLogs(sessionID)
		return ctx.Err()
	})
	g.Go(func() error {
		data.LinkedPlan = r.LinkedPlan(sessionID)
		return ctx.Err()
	})
	g.Go(func() error {
		data.LinkedSkill = LinkedSkill(transcripts)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// Transcripts returns every <sessionID>.jsonl across all project
// directories, in directory name order. There is no index; this is a
// linear scan.
func (r *Resolver) Transcripts(sessionID string) []string {
	name := sessionID + ccsessions.TranscriptExt
	if _, ok := archive.Child(r.layout.ProjectsDir(), name); !ok {
		return nil
	}
	projectsDir := r.layout.ProjectsDir()
	var paths []string
	for _, entry := range archive.ReadDir(projectsDir) {
		if !archive.IsDirOrSymlink(projectsDir, entry) {
			continue
		}
		path := filepath.Join(projectsDir, entry.Name(), name)
		if fileExists(path) {
			paths = append(paths, path)
		}
	}
	return paths
}

// FindProject returns the encoded project directory holding a session's
// transcript, if any.
func (r *Resolver) FindProject(sessionID string) (string, bool) {
	paths := r.Transcripts(CanonicalID(sessionID))
	if len(paths) == 0 {
		return "", false
	}
	return filepath.Base(filepath.Dir(paths[0])), true
}

func loadEntries(path string) []ccsessions.Entry {
	ps, err := sessions.Load(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Debug("transcript unreadable")
		return nil
	}
	return ps.Entries
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func hasPrefixFold(name, prefix string) bool {
	return len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
}
