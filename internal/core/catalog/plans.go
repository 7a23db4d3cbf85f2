package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/neilberkman/ccscope/internal/core/archive"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
)

// Plan is a markdown plan document.
type Plan struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Content  string    `json:"content,omitempty"`
}

// Plans lists plans/*.md, most recently modified first.
func (c *Catalog) Plans() []Plan {
	dir := c.layout.PlansDir()
	plans := []Plan{}
	for _, entry := range archive.ReadDir(dir) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		plans = append(plans, Plan{Name: entry.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	sort.SliceStable(plans, func(i, j int) bool {
		if !plans[i].Modified.Equal(plans[j].Modified) {
			return plans[i].Modified.After(plans[j].Modified)
		}
		return plans[i].Name < plans[j].Name
	})
	return plans
}

// Plan returns one plan with its content.
func (c *Catalog) Plan(name string) (*Plan, error) {
	dir := c.layout.PlansDir()
	content, ok, exists, err := readNamed(dir, name)
	switch {
	case !ok:
		return nil, ccerrors.InvalidInput("name", name, "must name a file inside the plans directory")
	case !exists:
		return nil, ccerrors.PlanNotFound(name)
	case err != nil:
		return nil, ccerrors.Wrap(err, ccerrors.ErrCodeInternal, "failed to read plan")
	}
	p := &Plan{Name: name, Size: int64(len(content)), Content: content}
	if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
		p.Modified = info.ModTime()
	}
	return p, nil
}
