// Package catalog reads the archive's free-standing stores: plan
// documents, skills, slash commands, installed plugins, shell snapshots
// and the prompt history.
package catalog

import (
	"os"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/logging"
)

var log = logging.NewLogger("catalog")

// Catalog reads the stores of one archive.
type Catalog struct {
	layout archive.Layout
}

// New returns a Catalog for layout.
func New(layout archive.Layout) *Catalog {
	return &Catalog{layout: layout}
}

// readNamed reads dir/name when name stays inside dir. ok is false for
// traversal attempts; exists is false when there is no such file.
func readNamed(dir, name string) (content string, ok, exists bool, err error) {
	path, ok := archive.Child(dir, name)
	if !ok {
		return "", false, false, nil
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", true, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", true, true, err
	}
	return string(data), true, true, nil
}
