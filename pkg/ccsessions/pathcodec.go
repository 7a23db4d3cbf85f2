package ccsessions

import "strings"

// EncodePath maps a real project path to the directory name Claude Code
// stores its transcripts under: every character outside [A-Za-z0-9]
// becomes '-'. The mapping is lossy, so distinct paths may collide.
func EncodePath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		if isAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// DecodePath guesses the real path behind an encoded directory name. A
// leading '-' marks an absolute path. Literal hyphens, dots and spaces in
// the original path cannot be recovered, so this is a last-resort fallback.
func DecodePath(name string) string {
	if rest, ok := strings.CutPrefix(name, "-"); ok {
		return "/" + strings.ReplaceAll(rest, "-", "/")
	}
	return strings.ReplaceAll(name, "-", "/")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
