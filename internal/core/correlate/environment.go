package correlate

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
)

// Environment merges the KEY=value lines of every file under
// session-env/<session>. Later files win on duplicate keys. A session with
// no environment directory has an empty map.
func (r *Resolver) Environment(sessionID string) (map[string]string, error) {
	env := map[string]string{}
	dir, ok := archive.Child(r.layout.SessionEnvDir(), CanonicalID(sessionID))
	if !ok {
		return nil, ccerrors.InvalidInput("sessionId", sessionID, "not a valid session id")
	}
	for _, entry := range archive.ReadDir(dir) {
		if entry.IsDir() {
			continue
		}
		if err := readEnvFile(filepath.Join(dir, entry.Name()), env); err != nil {
			log.WithError(err).WithField("file", entry.Name()).Debug("skipping unreadable env file")
		}
	}
	return env, nil
}

func readEnvFile(path string, env map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		env[strings.TrimSpace(key)] = value
	}
	return scanner.Err()
}

// BackupContent returns the raw text of one backup file. Names that would
// leave the session's backup directory are rejected.
func (r *Resolver) BackupContent(sessionID, name string) (string, error) {
	sessionID = CanonicalID(sessionID)
	dir, ok := archive.Child(r.layout.FileHistoryDir(), sessionID)
	if !ok {
		return "", ccerrors.InvalidInput("sessionId", sessionID, "not a valid session id")
	}
	path, ok := archive.Child(dir, name)
	if !ok {
		return "", ccerrors.InvalidInput("backupName", name, "must name a file inside the session backup directory")
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ccerrors.BackupNotFound(sessionID, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ccerrors.Wrap(err, ccerrors.ErrCodeInternal, "failed to read backup")
	}
	return string(data), nil
}
