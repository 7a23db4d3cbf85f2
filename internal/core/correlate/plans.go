package correlate

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/neilberkman/ccscope/internal/core/archive"
)

// LinkedPlan returns the first plan document, in name order, whose text
// contains the session id. This is a plain substring match and can hit a
// plan that merely quotes the id.
func (r *Resolver) LinkedPlan(sessionID string) *string {
	dir := r.layout.PlansDir()
	needle := []byte(sessionID)
	for _, entry := range archive.ReadDir(dir) {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if bytes.Contains(data, needle) {
			return &name
		}
	}
	return nil
}
