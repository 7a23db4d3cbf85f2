package archive

import (
	"path/filepath"
	"strings"

	"github.com/neilberkman/ccscope/pkg/ccsessions"
)

// ResolveProjectPath maps an encoded project directory to a real path.
// The config lookup is authoritative. Directories missing from the config
// are orphans: their path comes from the cwd recorded by a sub-agent
// transcript, or failing that from the lossy decode of the name.
func ResolveProjectPath(cfg *ConfigSnapshot, projectDir string) (path string, orphan bool) {
	encoded := filepath.Base(projectDir)
	if real, ok := cfg.RealPath(encoded); ok {
		return real, false
	}
	if cwd := AgentCWD(projectDir); cwd != "" {
		return cwd, true
	}
	return ccsessions.DecodePath(encoded), true
}

// AgentCWD returns the cwd of the first agent transcript in dir whose first
// record carries one.
func AgentCWD(dir string) string {
	for _, entry := range ReadDir(dir) {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, ccsessions.AgentPrefix) || filepath.Ext(name) != ccsessions.TranscriptExt {
			continue
		}
		first, ok, err := ccsessions.FirstEntry(filepath.Join(dir, name))
		if err != nil || !ok {
			continue
		}
		if cwd := first.CWD(); cwd != "" {
			return cwd
		}
	}
	return ""
}
