package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"gopkg.in/yaml.v3"
)

// Command is a custom slash command, commands/<name>.md.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

type commandFrontmatter struct {
	Description string `yaml:"description"`
}

// Commands lists commands/*.md by name. Content is left empty.
func (c *Catalog) Commands() []Command {
	dir := c.layout.CommandsDir()
	commands := []Command{}
	for _, entry := range archive.ReadDir(dir) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			commands = append(commands, Command{Name: name})
			continue
		}
		cmd := parseCommand(name, data)
		cmd.Content = ""
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	return commands
}

// Command returns one command with its full markdown. name may be given
// with or without the .md suffix.
func (c *Catalog) Command(name string) (*Command, error) {
	dir := c.layout.CommandsDir()
	content, ok, exists, err := readNamed(dir, name+".md")
	if ok && !exists && err == nil {
		content, ok, exists, err = readNamed(dir, name)
	}
	switch {
	case !ok:
		return nil, ccerrors.InvalidInput("name", name, "must name a file inside the commands directory")
	case !exists:
		return nil, ccerrors.CommandNotFound(name)
	case err != nil:
		return nil, ccerrors.Wrap(err, ccerrors.ErrCodeInternal, "failed to read command")
	}
	cmd := parseCommand(name, []byte(content))
	return &cmd, nil
}

func parseCommand(name string, data []byte) Command {
	cmd := Command{Name: name, Content: string(data)}
	block, _ := Frontmatter(data)
	if block == nil {
		return cmd
	}
	var fm commandFrontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		log.WithError(err).WithField("command", name).Debug("command frontmatter unparsable")
		return cmd
	}
	cmd.Description = strings.TrimSpace(fm.Description)
	return cmd
}
