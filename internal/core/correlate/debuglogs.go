package correlate

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/models"
)

const (
	MaxDebugLogs     = 5
	MaxDebugLogChars = 5000
	debugPrefixLen   = 8
)

// DebugLogs returns up to MaxDebugLogs debug files whose name contains the
// session id or starts with its first eight characters, in name order.
func (r *Resolver) DebugLogs(sessionID string) []models.DebugLog {
	logs := []models.DebugLog{}
	dir := r.layout.DebugDir()
	short := sessionID
	if len(short) > debugPrefixLen {
		short = short[:debugPrefixLen]
	}

	for _, entry := range archive.ReadDir(dir) {
		if len(logs) >= MaxDebugLogs {
			break
		}
		name := entry.Name()
		if entry.IsDir() || !(strings.Contains(name, sessionID) || strings.HasPrefix(name, short)) {
			continue
		}
		content, truncated, err := readPrefix(filepath.Join(dir, name), MaxDebugLogChars)
		if err != nil {
			log.WithError(err).WithField("file", name).Debug("skipping unreadable debug log")
			continue
		}
		logs = append(logs, models.DebugLog{Name: name, Content: content, Truncated: truncated})
	}
	return logs
}

// readPrefix reads at most maxChars characters of a file without loading
// the rest.
func readPrefix(path string, maxChars int) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	// a UTF-8 character is at most four bytes
	data, err := io.ReadAll(io.LimitReader(f, int64(maxChars)*utf8.UTFMax+1))
	if err != nil {
		return "", false, err
	}
	text := strings.ToValidUTF8(string(data), "�")
	if utf8.RuneCountInString(text) <= maxChars {
		return text, false, nil
	}
	runes := []rune(text)
	return string(runes[:maxChars]), true, nil
}
