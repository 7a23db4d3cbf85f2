// Package projects discovers the working directories Claude Code has been
// used in, from the transcript directories and the global config.
package projects

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/logging"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/core/sessions"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
	"golang.org/x/sync/errgroup"
)

var log = logging.NewLogger("projects")

const RecentSessions = 10

// Discoverer lists projects in one archive.
type Discoverer struct {
	Layout   archive.Layout
	Home     string
	Workers  int
	Excluder *Excluder
}

// Discover returns every project: one per transcript directory, plus
// config entries that have no directory. The result is unsorted.
func (d *Discoverer) Discover(ctx context.Context) ([]models.Project, error) {
	cfg := archive.ReadConfig(d.Layout.ConfigFile)
	projectsDir := d.Layout.ProjectsDir()

	var dirs []string
	for _, entry := range archive.ReadDir(projectsDir) {
		if archive.IsDirOrSymlink(projectsDir, entry) {
			dirs = append(dirs, entry.Name())
		}
	}

	found := make([]models.Project, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	if d.Workers > 0 {
		g.SetLimit(d.Workers)
	}
	for i, encoded := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found[i] = d.fromDir(cfg, encoded)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(found))
	onDisk := make(map[string]bool, len(dirs))
	for _, encoded := range dirs {
		onDisk[encoded] = true
	}

	projects := make([]models.Project, 0, len(found))
	for _, p := range found {
		seen[p.Path] = true
		if !d.Excluder.Excluded(p.Path) {
			projects = append(projects, p)
		}
	}

	for _, realPath := range cfg.ProjectPaths() {
		encoded := ccsessions.EncodePath(realPath)
		if seen[realPath] || onDisk[encoded] || d.Excluder.Excluded(realPath) {
			continue
		}
		p := d.base(encoded, realPath)
		applyConfig(&p, cfg, realPath)
		projects = append(projects, p)
	}
	return projects, nil
}

func (d *Discoverer) fromDir(cfg *archive.ConfigSnapshot, encoded string) models.Project {
	dir := d.Layout.ProjectDir(encoded)
	realPath, orphan := archive.ResolveProjectPath(cfg, dir)

	p := d.base(encoded, realPath)
	p.HasSessionData = true
	p.IsOrphan = orphan
	applyConfig(&p, cfg, realPath)

	files := sessions.ListFiles(dir)
	p.SessionCount = len(files)
	if len(files) > 0 {
		last := files[0].ModTime
		p.LastActivity = &last
	}
	return p
}

func (d *Discoverer) base(encoded, realPath string) models.Project {
	return models.Project{
		ID:          encoded,
		Path:        realPath,
		DisplayPath: DisplayPath(realPath, d.Home),
		Name:        Name(realPath),
	}
}

func applyConfig(p *models.Project, cfg *archive.ConfigSnapshot, realPath string) {
	pc, ok := cfg.Project(realPath)
	if !ok {
		return
	}
	p.LastSessionID = pc.LastSessionID
	p.LastCost = pc.LastCost
	p.LastDuration = pc.LastDuration
	p.LastTotalInputTokens = pc.LastTotalInputTokens
	p.LastTotalOutputTokens = pc.LastTotalOutputTokens
}

// Resolve maps an encoded id to its project record without scanning the
// sessions. Ids without a transcript directory are not found.
func (d *Discoverer) Resolve(id string) (models.Project, error) {
	dir, ok := archive.Child(d.Layout.ProjectsDir(), id)
	if !ok || !isDir(dir) {
		return models.Project{}, ccerrors.ProjectNotFound(id)
	}
	cfg := archive.ReadConfig(d.Layout.ConfigFile)
	return d.fromDir(cfg, id), nil
}

// Detail returns a project with its ten most recently modified sessions
// and totals over all of them.
func (d *Discoverer) Detail(ctx context.Context, id string) (*models.ProjectDetail, error) {
	p, err := d.Resolve(id)
	if err != nil {
		return nil, err
	}
	files := sessions.ListFiles(d.Layout.ProjectDir(id))
	all, err := sessions.BuildAll(ctx, p.ID, p.Path, files, d.Workers)
	if err != nil {
		return nil, err
	}

	detail := &models.ProjectDetail{
		Project:        p,
		RecentSessions: all[:min(RecentSessions, len(all))],
	}
	for _, s := range all {
		detail.ActivitySummary.TotalMessages += s.MessageCount
		if s.IsAgent {
			detail.ActivitySummary.TotalAgentSessions++
		}
	}
	if len(files) > 0 {
		first := files[len(files)-1].ModTime
		detail.ActivitySummary.DateRange = models.DateRange{Start: &first, End: p.LastActivity}
	}
	return detail, nil
}

// Config returns the raw config entry of a mapped project. Orphans and
// unknown ids are not found.
func (d *Discoverer) Config(id string) (string, map[string]any, error) {
	cfg := archive.ReadConfig(d.Layout.ConfigFile)
	realPath, ok := cfg.RealPath(id)
	if !ok {
		return "", nil, ccerrors.ProjectNotFound(id).WithDetail("reason", "not in config (orphan)")
	}
	raw, _ := cfg.ProjectRaw(realPath)
	return realPath, raw, nil
}

// MatchesPrefix reports whether path lies under any of prefixes. Prefixes
// are ~-expanded and cleaned; an empty list matches everything.
func MatchesPrefix(path string, prefixes []string, home string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		if home != "" && (prefix == "~" || strings.HasPrefix(prefix, "~/")) {
			prefix = home + prefix[1:]
		}
		prefix = filepath.Clean(prefix)
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// DisplayPath abbreviates the home directory to ~.
func DisplayPath(path, home string) string {
	if home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+"/") {
		return "~" + path[len(home):]
	}
	return path
}

// Name is the last element of a project path.
func Name(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return path
	}
	return filepath.Base(trimmed)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
