package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

// contextLines is how far below the top edge a match lands after a jump.
const contextLines = 3

func createViewport(width, height int) viewport.Model {
	return viewport.New(width, viewportHeight(height))
}

func viewportHeight(h int) int {
	return max(h-2, 1) // footer and status lines
}

// findMatchLines returns the indices of rendered lines containing query,
// case-insensitively.
func findMatchLines(content, query string) []int {
	if query == "" {
		return nil
	}
	lowerQuery := strings.ToLower(query)
	var lines []int
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), lowerQuery) {
			lines = append(lines, i)
		}
	}
	return lines
}

// highlightContent styles every occurrence of query; the first occurrence
// on currentLine gets the current-match style.
func highlightContent(content, query string, currentLine int) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = highlightLine(line, query, i == currentLine)
	}
	return strings.Join(lines, "\n")
}

func highlightLine(text, query string, isCurrent bool) string {
	lower := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)
	// Case folding changed byte offsets; leave the line alone.
	if query == "" || len(lower) != len(text) || len(lowerQuery) != len(query) {
		return text
	}

	var result strings.Builder
	lastIdx := 0
	for n := 0; ; n++ {
		idx := strings.Index(lower[lastIdx:], lowerQuery)
		if idx == -1 {
			result.WriteString(text[lastIdx:])
			break
		}
		idx += lastIdx
		result.WriteString(text[lastIdx:idx])

		style := searchMatchStyle
		if isCurrent && n == 0 {
			style = searchCurrentMatchStyle
		}
		result.WriteString(style.Render(text[idx : idx+len(query)]))
		lastIdx = idx + len(query)
	}
	return result.String()
}

// scrollToMatch brings the current match into view. Unless always is set,
// a match already on screen does not move the viewport.
func scrollToMatch(m *Model, always bool) {
	if m.matchIdx < 0 || m.matchIdx >= len(m.matchLines) {
		return
	}
	line := m.matchLines[m.matchIdx]
	if !always && line >= m.viewport.YOffset && line < m.viewport.YOffset+m.viewport.Height {
		return
	}
	m.viewport.SetYOffset(max(line-contextLines, 0))
}
