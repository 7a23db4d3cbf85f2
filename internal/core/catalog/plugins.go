package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
)

// Plugin is one entry of plugins/installed_plugins.json.
type Plugin struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Scope        string   `json:"scope,omitempty"`
	InstallPath  string   `json:"installPath,omitempty"`
	InstalledAt  string   `json:"installedAt,omitempty"`
	GitCommitSha string   `json:"gitCommitSha,omitempty"`
	Skills       []string `json:"skills"`
}

// Plugins lists the installed plugins with the skills each provides.
// A missing registry, or one that is not a JSON array, yields none.
func (c *Catalog) Plugins() []Plugin {
	path := c.layout.PluginsFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return []Plugin{}
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.WithError(err).WithField("file", path).Debug("plugin registry is not a list")
		return []Plugin{}
	}
	plugins := make([]Plugin, 0, len(raw))
	for _, item := range raw {
		var p Plugin
		if err := json.Unmarshal(item, &p); err != nil || p.Name == "" {
			continue
		}
		p.Skills = pluginSkills(p.InstallPath)
		plugins = append(plugins, p)
	}
	return plugins
}

// Plugin returns the installed plugin with exactly this name.
func (c *Catalog) Plugin(name string) (*Plugin, error) {
	for _, p := range c.Plugins() {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, ccerrors.PluginNotFound(name)
}

func pluginSkills(installPath string) []string {
	skills := []string{}
	if installPath == "" {
		return skills
	}
	dir := filepath.Join(installPath, "skills")
	for _, entry := range archive.ReadDir(dir) {
		if archive.IsDirOrSymlink(dir, entry) {
			skills = append(skills, entry.Name())
		}
	}
	sort.Strings(skills)
	return skills
}
