package archive

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
)

// ModelTokens are the per-model token counters kept in lastModelUsage.
type ModelTokens struct {
	InputTokens              int64 `mapstructure:"inputTokens" json:"inputTokens"`
	OutputTokens             int64 `mapstructure:"outputTokens" json:"outputTokens"`
	CacheReadInputTokens     int64 `mapstructure:"cacheReadInputTokens" json:"cacheReadInputTokens"`
	CacheCreationInputTokens int64 `mapstructure:"cacheCreationInputTokens" json:"cacheCreationInputTokens"`
}

// ProjectConfig is the typed view of one entry in the config's projects map.
// Every field is optional in the file.
type ProjectConfig struct {
	LastSessionID         string                 `mapstructure:"lastSessionId"`
	LastCost              *float64               `mapstructure:"lastCost"`
	LastDuration          *float64               `mapstructure:"lastDuration"`
	LastTotalInputTokens  *int64                 `mapstructure:"lastTotalInputTokens"`
	LastTotalOutputTokens *int64                 `mapstructure:"lastTotalOutputTokens"`
	LastModelUsage        map[string]ModelTokens `mapstructure:"lastModelUsage"`
}

// ConfigSnapshot is one read of the global config file. It is never cached
// between queries.
type ConfigSnapshot struct {
	Raw map[string]any

	projects    map[string]ProjectConfig
	rawProjects map[string]map[string]any
	byEncoded   map[string]string
}

// ReadConfig loads the global config file. A missing or unparsable file
// yields an empty snapshot: no authoritative path mapping, not an error.
func ReadConfig(path string) *ConfigSnapshot {
	snap := &ConfigSnapshot{
		Raw:         map[string]any{},
		projects:    map[string]ProjectConfig{},
		rawProjects: map[string]map[string]any{},
		byEncoded:   map[string]string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("file", path).Debug("config unreadable")
		}
		return snap
	}
	if err := json.Unmarshal(data, &snap.Raw); err != nil {
		log.WithError(err).WithField("file", path).Debug("config unparsable")
		snap.Raw = map[string]any{}
		return snap
	}

	projects, _ := snap.Raw["projects"].(map[string]any)
	paths := make([]string, 0, len(projects))
	for realPath := range projects {
		paths = append(paths, realPath)
	}
	sort.Strings(paths)

	for _, realPath := range paths {
		entry, _ := projects[realPath].(map[string]any)
		if entry == nil {
			entry = map[string]any{}
		}
		snap.rawProjects[realPath] = entry
		snap.byEncoded[ccsessions.EncodePath(realPath)] = realPath

		var pc ProjectConfig
		if err := decodeProject(entry, &pc); err != nil {
			log.WithError(err).WithField("project", realPath).Debug("project metadata not decodable")
		}
		snap.projects[realPath] = pc
	}

	return snap
}

func decodeProject(entry map[string]any, target *ProjectConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(entry)
}

// RealPath returns the config path whose encoding equals the directory name.
// When several config paths collide on one encoding the mapping is
// the lexically last one; the encoding cannot tell them apart.
func (c *ConfigSnapshot) RealPath(encoded string) (string, bool) {
	p, ok := c.byEncoded[encoded]
	return p, ok
}

// Project returns the typed metadata for a real path.
func (c *ConfigSnapshot) Project(realPath string) (ProjectConfig, bool) {
	pc, ok := c.projects[realPath]
	return pc, ok
}

// ProjectRaw returns the untyped config entry for a real path.
func (c *ConfigSnapshot) ProjectRaw(realPath string) (map[string]any, bool) {
	raw, ok := c.rawProjects[realPath]
	return raw, ok
}

// ProjectPaths returns every real path in the config, sorted.
func (c *ConfigSnapshot) ProjectPaths() []string {
	paths := make([]string, 0, len(c.projects))
	for p := range c.projects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
