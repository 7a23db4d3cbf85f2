package correlate

import (
	"path/filepath"
	"strings"

	"github.com/neilberkman/ccscope/pkg/ccsessions"
)

const skillBasePrefix = "Base directory for this skill:"

// LinkedSkill returns the first skill a session invoked: an assistant
// Skill tool call, or the user turn Claude Code injects when a skill
// loads.
func LinkedSkill(transcripts []string) *string {
	for _, path := range transcripts {
		for _, e := range loadEntries(path) {
			if name := skillOf(e); name != "" {
				return &name
			}
		}
	}
	return nil
}

func skillOf(e ccsessions.Entry) string {
	switch e.Kind {
	case ccsessions.KindAssistant:
		for _, tu := range e.ToolUses() {
			if tu.Name != "Skill" {
				continue
			}
			for _, field := range []string{"skill", "command"} {
				if v := strings.TrimSpace(tu.Input.Get(field).String()); v != "" {
					return v
				}
			}
		}
	case ccsessions.KindUser:
		for _, block := range e.ContentBlocks() {
			if block.Type != "text" {
				continue
			}
			text := strings.TrimSpace(block.Text)
			if !strings.HasPrefix(text, skillBasePrefix) {
				continue
			}
			line, _, _ := strings.Cut(strings.TrimSpace(strings.TrimPrefix(text, skillBasePrefix)), "\n")
			if base := filepath.Base(strings.TrimSpace(line)); base != "." && base != "/" {
				return base
			}
		}
	}
	return ""
}
