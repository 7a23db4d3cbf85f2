package catalog

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
)

var snapshotNamePattern = regexp.MustCompile(`^snapshot-(\w+)-(\d+)-\w+\.sh$`)

// ShellSnapshot is a captured shell environment script.
type ShellSnapshot struct {
	Filename  string     `json:"filename"`
	Shell     string     `json:"shell,omitempty"`
	Timestamp *time.Time `json:"timestamp"`
	Size      int64      `json:"size"`
	Content   string     `json:"content,omitempty"`
}

// ParseSnapshotName reads the shell and capture time from a name of the
// form snapshot-<shell>-<unix ms>-<id>.sh. Other names keep only the
// filename.
func ParseSnapshotName(name string) ShellSnapshot {
	s := ShellSnapshot{Filename: name}
	m := snapshotNamePattern.FindStringSubmatch(name)
	if m == nil {
		return s
	}
	s.Shell = m[1]
	if ms, err := strconv.ParseInt(m[2], 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		s.Timestamp = &t
	}
	return s
}

// ShellSnapshots lists shell-snapshots/*.sh, newest first.
func (c *Catalog) ShellSnapshots() []ShellSnapshot {
	dir := c.layout.ShellSnapshotsDir()
	snapshots := []ShellSnapshot{}
	for _, entry := range archive.ReadDir(dir) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sh" {
			continue
		}
		s := ParseSnapshotName(entry.Name())
		if info, err := entry.Info(); err == nil {
			s.Size = info.Size()
		}
		snapshots = append(snapshots, s)
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		ti, tj := snapshots[i].Timestamp, snapshots[j].Timestamp
		switch {
		case ti != nil && tj != nil && !ti.Equal(*tj):
			return ti.After(*tj)
		case (ti == nil) != (tj == nil):
			return ti != nil
		}
		return snapshots[i].Filename < snapshots[j].Filename
	})
	return snapshots
}

// ShellSnapshot returns one snapshot with its script.
func (c *Catalog) ShellSnapshot(name string) (*ShellSnapshot, error) {
	content, ok, exists, err := readNamed(c.layout.ShellSnapshotsDir(), name)
	switch {
	case !ok:
		return nil, ccerrors.InvalidInput("filename", name, "must name a file inside the shell-snapshots directory")
	case !exists:
		return nil, ccerrors.SnapshotNotFound(name)
	case err != nil:
		return nil, ccerrors.Wrap(err, ccerrors.ErrCodeInternal, "failed to read shell snapshot")
	}
	s := ParseSnapshotName(name)
	s.Size = int64(len(content))
	s.Content = content
	return &s, nil
}
