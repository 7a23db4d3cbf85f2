package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(a *testutil.Archive) *Catalog {
	return New(archive.NewLayout(a.Root, a.ConfigFile))
}

func TestPlans(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteFile(a.Path("plans", "old.md"), "# old")
	a.Touch(a.Path("plans", "old.md"), testutil.Day(2025, 1, 1, 0))
	a.WriteFile(a.Path("plans", "new.md"), "# new plan")
	a.Touch(a.Path("plans", "new.md"), testutil.Day(2025, 2, 1, 0))
	a.WriteFile(a.Path("plans", "notes.txt"), "skip")
	c := newCatalog(a)

	plans := c.Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, "new.md", plans[0].Name)
	assert.Equal(t, int64(len("# new plan")), plans[0].Size)
	assert.Empty(t, plans[0].Content)

	p, err := c.Plan("old.md")
	require.NoError(t, err)
	assert.Equal(t, "# old", p.Content)

	_, err = c.Plan("missing.md")
	assert.True(t, ccerrors.IsNotFound(err))

	_, err = c.Plan("../history.jsonl")
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))
}

func TestPlans_MissingDir(t *testing.T) {
	a := testutil.NewArchive(t)
	plans := newCatalog(a).Plans()
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestSkills(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteFile(a.Path("skills", "pdf", "SKILL.md"), "---\nname: pdf\ndescription: Work with PDF files\nallowed-tools: Read Write\n---\n\n# PDF\n")
	a.WriteFile(a.Path("skills", "bare", "README.md"), "no skill file")

	external := filepath.Join(t.TempDir(), "xlsx")
	a.WriteFile(filepath.Join(external, "SKILL.md"), "---\ndescription: Spreadsheets\nallowed-tools:\n  - Bash\n  - Read\n---\nbody")
	require.NoError(t, os.Symlink(external, a.Path("skills", "xlsx")))
	a.WriteFile(a.Path("skills", "stray.md"), "not a skill dir")
	c := newCatalog(a)

	skills := c.Skills()
	require.Len(t, skills, 3)

	assert.Equal(t, "bare", skills[0].Name)
	assert.Empty(t, skills[0].Description)

	assert.Equal(t, "pdf", skills[1].Name)
	assert.Equal(t, "Work with PDF files", skills[1].Description)
	assert.Equal(t, []string{"Read", "Write"}, skills[1].AllowedTools)
	assert.False(t, skills[1].IsSymlink)
	assert.Empty(t, skills[1].Content)

	assert.Equal(t, "xlsx", skills[2].Name)
	assert.True(t, skills[2].IsSymlink)
	assert.NotEmpty(t, skills[2].RealPath)
	assert.Equal(t, []string{"Bash", "Read"}, skills[2].AllowedTools)

	s, err := c.Skill("pdf")
	require.NoError(t, err)
	assert.Contains(t, s.Content, "# PDF")

	_, err = c.Skill("nope")
	assert.True(t, ccerrors.IsNotFound(err))
	_, err = c.Skill("..")
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))
}

func TestCommands(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteFile(a.Path("commands", "review.md"), "---\ndescription: Review the diff\n---\nLook at $ARGUMENTS")
	a.WriteFile(a.Path("commands", "plain.md"), "Just do it")
	a.WriteFile(a.Path("commands", "notes.txt"), "not a command")
	c := newCatalog(a)

	commands := c.Commands()
	require.Len(t, commands, 2)
	assert.Equal(t, "plain", commands[0].Name)
	assert.Empty(t, commands[0].Description)
	assert.Equal(t, "review", commands[1].Name)
	assert.Equal(t, "Review the diff", commands[1].Description)
	assert.Empty(t, commands[1].Content)

	cmd, err := c.Command("review")
	require.NoError(t, err)
	assert.Equal(t, "Review the diff", cmd.Description)
	assert.Contains(t, cmd.Content, "$ARGUMENTS")

	cmd, err = c.Command("plain.md")
	require.NoError(t, err)
	assert.Equal(t, "Just do it", cmd.Content)

	_, err = c.Command("missing")
	assert.True(t, ccerrors.IsNotFound(err))
	_, err = c.Command("../review")
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))
}

func TestCommands_MissingDir(t *testing.T) {
	a := testutil.NewArchive(t)
	commands := newCatalog(a).Commands()
	assert.NotNil(t, commands)
	assert.Empty(t, commands)
}

func TestPlugins(t *testing.T) {
	a := testutil.NewArchive(t)
	install := filepath.Join(t.TempDir(), "docs-plugin")
	a.WriteFile(filepath.Join(install, "skills", "pdf", "SKILL.md"), "# pdf")
	a.WriteFile(filepath.Join(install, "skills", "docx", "SKILL.md"), "# docx")
	a.WriteFile(filepath.Join(install, "skills", "README.md"), "not a skill")
	a.WriteJSON(a.Path("plugins", "installed_plugins.json"), []any{
		map[string]any{
			"name":         "docs@anthropic",
			"version":      "1.2.0",
			"scope":        "user",
			"installPath":  install,
			"installedAt":  "2025-01-15T10:00:00Z",
			"gitCommitSha": "abc123",
		},
		map[string]any{"name": "bare@local", "version": "0.1.0"},
		map[string]any{"version": "9.9.9"}, // unnamed
	})
	c := newCatalog(a)

	plugins := c.Plugins()
	require.Len(t, plugins, 2)
	assert.Equal(t, "docs@anthropic", plugins[0].Name)
	assert.Equal(t, "user", plugins[0].Scope)
	assert.Equal(t, "abc123", plugins[0].GitCommitSha)
	assert.Equal(t, []string{"docx", "pdf"}, plugins[0].Skills)
	assert.Empty(t, plugins[1].Skills)

	p, err := c.Plugin("bare@local")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", p.Version)

	_, err = c.Plugin("bare")
	assert.True(t, ccerrors.IsNotFound(err))
}

func TestPlugins_RegistryNotAList(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteJSON(a.Path("plugins", "installed_plugins.json"), map[string]any{"version": 2})
	plugins := newCatalog(a).Plugins()
	assert.NotNil(t, plugins)
	assert.Empty(t, plugins)
}

func TestFrontmatter(t *testing.T) {
	block, body := Frontmatter([]byte("---\na: 1\n---\n\ntext"))
	assert.Equal(t, "a: 1", string(block))
	assert.Equal(t, "text", string(body))

	block, body = Frontmatter([]byte("# no frontmatter"))
	assert.Nil(t, block)
	assert.Equal(t, "# no frontmatter", string(body))
}

func TestShellSnapshots(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteFile(a.Path("shell-snapshots", "snapshot-zsh-1736935200000-abc123.sh"), "export A=1")
	a.WriteFile(a.Path("shell-snapshots", "snapshot-bash-1736935300000-def456.sh"), "export B=2")
	a.WriteFile(a.Path("shell-snapshots", "custom.sh"), "echo")
	a.WriteFile(a.Path("shell-snapshots", "readme.txt"), "skip")
	c := newCatalog(a)

	snaps := c.ShellSnapshots()
	require.Len(t, snaps, 3)
	assert.Equal(t, "bash", snaps[0].Shell)
	assert.Equal(t, "zsh", snaps[1].Shell)
	require.NotNil(t, snaps[1].Timestamp)
	assert.Equal(t, time.UnixMilli(1736935200000).UTC(), *snaps[1].Timestamp)
	assert.Equal(t, "custom.sh", snaps[2].Filename)
	assert.Nil(t, snaps[2].Timestamp)

	s, err := c.ShellSnapshot("snapshot-zsh-1736935200000-abc123.sh")
	require.NoError(t, err)
	assert.Equal(t, "export A=1", s.Content)

	_, err = c.ShellSnapshot("missing.sh")
	assert.True(t, ccerrors.IsNotFound(err))
}

func TestHistory(t *testing.T) {
	a := testutil.NewArchive(t)
	a.WriteFile(a.Path("history.jsonl"), `{"display":"Fix the parser","timestamp":1736935200000,"project":"/Users/sam/app","pastedContents":{}}
{"display":"add tests","timestamp":1736935300000,"project":"/Users/sam/app"}
not json
{"display":"unrelated","timestamp":1736935400000,"project":"/Users/sam/other"}
`)
	c := newCatalog(a)

	page, err := c.History(HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "unrelated", page.Data[0].Display)
	assert.Equal(t, "-Users-sam-other", page.Data[0].ProjectID)

	page, err = c.History(HistoryQuery{Project: "app", Search: "PARSER"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Fix the parser", page.Data[0].Display)
	assert.JSONEq(t, `{}`, string(page.Data[0].PastedContents))

	since := time.UnixMilli(1736935300000)
	page, err = c.History(HistoryQuery{Since: &since, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Meta.Total)
	assert.True(t, page.Meta.HasMore)

	_, err = c.History(HistoryQuery{Limit: 101})
	assert.True(t, ccerrors.Is(err, ccerrors.ErrCodeInvalidInput))
}

func TestHistory_Missing(t *testing.T) {
	a := testutil.NewArchive(t)
	page, err := newCatalog(a).History(HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.Meta.Total)
}
