// Package sessions enumerates a project's transcripts and derives session
// records from them.
package sessions

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/logging"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
	"golang.org/x/sync/errgroup"
)

var log = logging.NewLogger("sessions")

// File is a transcript on disk.
type File struct {
	ID      string
	Path    string
	ModTime time.Time
	Size    int64
}

// ListFiles returns the transcripts in a project directory, most recently
// modified first. A missing directory has no transcripts.
func ListFiles(projectDir string) []File {
	var files []File
	for _, entry := range archive.ReadDir(projectDir) {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ccsessions.TranscriptExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, File{
			ID:      ccsessions.SessionIDFromPath(name),
			Path:    filepath.Join(projectDir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].ID < files[j].ID
	})
	return files
}

// Bounds are the time span, size and model of one transcript.
type Bounds struct {
	Start        *time.Time
	End          *time.Time
	MessageCount int
	Model        string
}

// BoundsOf scans entries in file order. Snapshot entries are not messages
// and do not move the bounds. Start is the first valid timestamp seen and
// End the latest one, so Start never follows End.
func BoundsOf(entries []ccsessions.Entry) Bounds {
	var b Bounds
	for _, e := range entries {
		if e.Kind == ccsessions.KindSnapshot {
			continue
		}
		b.MessageCount++

		if ts, ok := e.Timestamp(); ok {
			if b.Start == nil {
				start := ts
				b.Start = &start
			}
			if b.End == nil || ts.After(*b.End) {
				end := ts
				b.End = &end
			}
		}
		if model, ok := e.Model(); ok {
			b.Model = model
		}
	}
	return b
}

// Load parses a transcript, logging how many lines were dropped.
func Load(path string) (*ccsessions.ParsedSession, error) {
	ps, err := ccsessions.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if ps.Skipped > 0 {
		log.WithField("file", path).WithField("skipped", ps.Skipped).Debug("dropped malformed transcript lines")
	}
	return ps, nil
}

// ComputeBounds reads a transcript and returns its bounds. An unreadable
// file yields empty bounds rather than an error.
func ComputeBounds(path string) Bounds {
	ps, err := Load(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Debug("transcript unreadable")
		return Bounds{}
	}
	return BoundsOf(ps.Entries)
}

// ParentID returns the sessionId of a transcript's first record. For agent
// transcripts that field names the parent session.
func ParentID(entries []ccsessions.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	id, _ := entries[0].SessionID()
	return id
}

// FromParsed builds the session record for a parsed transcript.
func FromParsed(projectID, projectPath string, ps *ccsessions.ParsedSession) models.Session {
	b := BoundsOf(ps.Entries)
	s := models.Session{
		ID:           ps.SessionID,
		ProjectID:    projectID,
		ProjectPath:  projectPath,
		StartTime:    b.Start,
		EndTime:      b.End,
		LastModified: ps.FileMtime,
		MessageCount: b.MessageCount,
		Model:        b.Model,
		IsAgent:      ps.IsAgent(),
	}
	if s.IsAgent {
		s.ParentSessionID = ParentID(ps.Entries)
	}
	if err := s.Validate(); err != nil {
		log.WithError(err).WithField("file", ps.FilePath).Debug("inconsistent session record")
	}
	return s
}

// Build reads one transcript file into a session record. Unreadable files
// keep their identity with empty bounds.
func Build(projectID, projectPath string, f File) models.Session {
	ps, err := Load(f.Path)
	if err != nil {
		log.WithError(err).WithField("file", f.Path).Debug("transcript unreadable")
		return models.Session{
			ID:           f.ID,
			ProjectID:    projectID,
			ProjectPath:  projectPath,
			LastModified: f.ModTime,
			IsAgent:      ccsessions.IsAgentID(f.ID),
		}
	}
	ps.FileMtime = f.ModTime
	return FromParsed(projectID, projectPath, ps)
}

// Index builds session records for every transcript in a project, reading
// up to workers files at once. The result keeps ListFiles order.
func Index(ctx context.Context, projectID, projectPath, projectDir string, workers int) ([]models.Session, error) {
	files := ListFiles(projectDir)
	return BuildAll(ctx, projectID, projectPath, files, workers)
}

// BuildAll is Index over an already listed set of files.
func BuildAll(ctx context.Context, projectID, projectPath string, files []File, workers int) ([]models.Session, error) {
	out := make([]models.Session, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Build(projectID, projectPath, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
