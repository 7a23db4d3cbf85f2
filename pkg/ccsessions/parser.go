package ccsessions

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// AgentPrefix marks sub-agent transcript ids.
const AgentPrefix = "agent-"

// TranscriptExt is the transcript file extension.
const TranscriptExt = ".jsonl"

// ParsedSession is a fully read transcript file.
type ParsedSession struct {
	SessionID string // filename stem, agent transcripts keep their agent- id
	FilePath  string
	FileSize  int64
	FileMtime time.Time
	Entries   []Entry
	Skipped   int // lines dropped because they were not JSON objects
}

// IsAgent reports whether the transcript belongs to a sub-agent.
func (s *ParsedSession) IsAgent() bool {
	return IsAgentID(s.SessionID)
}

// IsAgentID reports whether id names a sub-agent transcript.
func IsAgentID(id string) bool {
	return strings.HasPrefix(id, AgentPrefix)
}

// SessionIDFromPath returns the transcript id for a file path.
func SessionIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scanner reads transcript records one line at a time. Blank lines and
// lines that are not JSON objects are skipped, so a corrupt or half-written
// line never stops the scan.
type Scanner struct {
	r       *bufio.Reader
	line    int
	entry   Entry
	skipped int
	err     error
	done    bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next advances to the next record. It returns false at end of input or on
// a read error, which Err reports.
func (s *Scanner) Next() bool {
	for !s.done {
		line, err := s.r.ReadBytes('\n')
		if err != nil {
			s.done = true
			if !errors.Is(err, io.EOF) {
				s.err = err
				return false
			}
			if len(line) == 0 {
				return false
			}
		}
		s.line++

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			s.skipped++
			continue
		}
		raw := gjson.ParseBytes(line)
		if !raw.IsObject() {
			s.skipped++
			continue
		}
		s.entry = newEntry(raw, s.line)
		return true
	}
	return false
}

// Entry returns the current record.
func (s *Scanner) Entry() Entry { return s.entry }

// Skipped returns the number of non-blank lines dropped so far.
func (s *Scanner) Skipped() int { return s.skipped }

// Err returns the first read error, if any.
func (s *Scanner) Err() error { return s.err }

// Parse reads every record from r.
func Parse(r io.Reader) ([]Entry, int, error) {
	sc := NewScanner(r)
	var entries []Entry
	for sc.Next() {
		entries = append(entries, sc.Entry())
	}
	return entries, sc.Skipped(), sc.Err()
}

// ParseBytes parses an in-memory transcript.
func ParseBytes(data []byte) []Entry {
	entries, _, _ := Parse(bytes.NewReader(data))
	return entries
}

// ParseFile parses a Claude Code session JSONL file
func ParseFile(path string) (session *ParsedSession, err error) {
	file, ferr := os.Open(path)
	if ferr != nil {
		return nil, fmt.Errorf("failed to open file: %w", ferr)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	entries, skipped, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return &ParsedSession{
		SessionID: SessionIDFromPath(path),
		FilePath:  path,
		FileSize:  info.Size(),
		FileMtime: info.ModTime(),
		Entries:   entries,
		Skipped:   skipped,
	}, nil
}

// FirstEntry returns the first parsable record of a transcript without
// reading the rest of the file.
func FirstEntry(path string) (Entry, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	sc := NewScanner(file)
	if sc.Next() {
		return sc.Entry(), true, nil
	}
	return Entry{}, false, sc.Err()
}
