package correlate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
)

var backupNamePattern = regexp.MustCompile(`^(.+)@v(\d+)$`)

type backupKey struct {
	filePath string
	backup   string
	version  int
}

// FileHistory merges snapshot entries from the session's transcripts with
// backup files present under file-history/<session>. Backup files already
// named by a snapshot are not repeated. Sorted by file path, then version.
func (r *Resolver) FileHistory(sessionID string, transcripts []string) []models.FileHistoryEntry {
	entries := []models.FileHistoryEntry{}
	seen := map[backupKey]bool{}
	named := map[string]bool{}

	for _, path := range transcripts {
		for _, e := range loadEntries(path) {
			if e.Kind != ccsessions.KindSnapshot {
				continue
			}
			messageID := e.MessageID()
			var snapshotTime *time.Time
			if ts, ok := e.SnapshotTime(); ok {
				snapshotTime = &ts
			}

			for _, tb := range e.TrackedBackups() {
				key := backupKey{filePath: tb.FilePath, version: tb.Version}
				if tb.BackupFileName != nil {
					key.backup = *tb.BackupFileName
					named[key.backup] = true
				}
				if seen[key] {
					continue
				}
				seen[key] = true

				backupTime := tb.BackupTime
				if backupTime == nil {
					backupTime = snapshotTime
				}
				entries = append(entries, models.FileHistoryEntry{
					FilePath:       tb.FilePath,
					BackupFileName: tb.BackupFileName,
					Version:        tb.Version,
					BackupTime:     backupTime,
					MessageID:      messageID,
					Action:         models.ActionFor(tb.BackupFileName),
				})
			}
		}
	}

	dir, ok := archive.Child(r.layout.FileHistoryDir(), sessionID)
	if ok {
		for _, f := range archive.ReadDir(dir) {
			m := backupNamePattern.FindStringSubmatch(f.Name())
			if f.IsDir() || m == nil || named[f.Name()] {
				continue
			}
			version, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			name := f.Name()
			entries = append(entries, models.FileHistoryEntry{
				FilePath:       fmt.Sprintf("(unknown - %s)", m[1]),
				BackupFileName: &name,
				Version:        version,
				Action:         models.FileActionModified,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].FilePath != entries[j].FilePath {
			return entries[i].FilePath < entries[j].FilePath
		}
		return entries[i].Version < entries[j].Version
	})
	return entries
}
