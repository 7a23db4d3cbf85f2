package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"gopkg.in/yaml.v3"
)

const skillFile = "SKILL.md"

// Skill is an installed skill directory.
type Skill struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
	IsSymlink    bool     `json:"isSymlink"`
	RealPath     string   `json:"realPath,omitempty"`
	Content      string   `json:"content,omitempty"`
}

type skillFrontmatter struct {
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	AllowedTools toolsList `yaml:"allowed-tools"`
}

// toolsList accepts either a YAML list or a single space or comma
// separated string.
type toolsList []string

func (t *toolsList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
	case yaml.ScalarNode:
		*t = strings.FieldsFunc(node.Value, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	}
	return nil
}

// Frontmatter splits a markdown document into its leading YAML block and
// the body. Documents without one return nil.
func Frontmatter(content []byte) ([]byte, []byte) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, content
	}
	rest := normalized[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, content
	}
	body := rest[end+len("\n---"):]
	body = bytes.TrimLeft(body, "\n")
	return rest[:end], body
}

// Skills lists every directory, or symlink to one, under skills/, by name.
// Content is left empty.
func (c *Catalog) Skills() []Skill {
	dir := c.layout.SkillsDir()
	skills := []Skill{}
	for _, entry := range archive.ReadDir(dir) {
		if !entry.IsDir() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		s := readSkill(filepath.Join(dir, entry.Name()), entry.Name())
		s.Content = ""
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills
}

// Skill returns one skill including its SKILL.md text.
func (c *Catalog) Skill(name string) (*Skill, error) {
	path, ok := archive.Child(c.layout.SkillsDir(), name)
	if !ok {
		return nil, ccerrors.InvalidInput("name", name, "must name an entry inside the skills directory")
	}
	if _, err := os.Lstat(path); err != nil {
		return nil, ccerrors.SkillNotFound(name)
	}
	s := readSkill(path, name)
	return &s, nil
}

func readSkill(path, name string) Skill {
	s := Skill{Name: name}
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		s.IsSymlink = true
		if real, err := filepath.EvalSymlinks(path); err == nil {
			s.RealPath = real
		}
	}

	data, err := os.ReadFile(filepath.Join(path, skillFile))
	if err != nil {
		return s
	}
	s.Content = string(data)

	block, _ := Frontmatter(data)
	if block == nil {
		return s
	}
	var fm skillFrontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		log.WithError(err).WithField("skill", name).Debug("skill frontmatter unparsable")
		return s
	}
	s.Description = strings.TrimSpace(fm.Description)
	s.AllowedTools = fm.AllowedTools
	return s
}
