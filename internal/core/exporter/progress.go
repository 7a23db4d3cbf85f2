package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressCallback receives one call per exported session.
type ProgressCallback interface {
	Update(label string, firstMsg string)
	Finish()
}

// ProgressReporter draws a one-line progress bar.
type ProgressReporter struct {
	writer    io.Writer
	total     int
	current   int
	startTime time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		total:     total,
		startTime: time.Now(),
	}
}

// Update advances the bar by one session.
func (p *ProgressReporter) Update(label string, firstMsg string) {
	p.current++
	total := max(p.total, p.current)

	pct := float64(p.current) / float64(total) * 100

	barWidth := 50
	filled := int(float64(barWidth) * float64(p.current) / float64(total))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	displayText := label
	if firstMsg != "" {
		displayText += " " + firstMsg
	}
	displayText = strings.Join(strings.Fields(displayText), " ")
	if r := []rune(displayText); len(r) > 60 {
		displayText = string(r[:57]) + "..."
	}

	elapsed := time.Since(p.startTime)
	var eta time.Duration
	if secs := elapsed.Seconds(); secs > 0 {
		rate := float64(p.current) / secs
		eta = time.Duration(float64(total-p.current)/rate) * time.Second
	}

	_, _ = fmt.Fprintf(p.writer, "\r[%s] %3.0f%% (%d/%d) ETA: %s | %s",
		bar, pct, p.current, total, eta.Round(time.Second), displayText)
}

// Finish completes the progress display
func (p *ProgressReporter) Finish() {
	elapsed := time.Since(p.startTime)
	_, _ = fmt.Fprintf(p.writer, "\nCompleted: Exported %d sessions in %s\n", p.current, elapsed.Round(time.Millisecond))
}
