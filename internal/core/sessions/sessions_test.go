package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/internal/testutil"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsOf_FirstAndLastSeen(t *testing.T) {
	entries := ccsessions.ParseBytes([]byte(
		`{"type":"user","timestamp":100}
{"type":"file-history-snapshot","snapshot":{"timestamp":10}}
{"type":"assistant","timestamp":50,"message":{"model":"claude-haiku"}}
{"type":"user","timestamp":200}
`))

	b := BoundsOf(entries)
	require.NotNil(t, b.Start)
	require.NotNil(t, b.End)
	assert.Equal(t, int64(100), b.Start.Unix())
	assert.Equal(t, int64(200), b.End.Unix())
	assert.Equal(t, 3, b.MessageCount)
	assert.Equal(t, "claude-haiku", b.Model)
}

func TestBoundsOf_LastModelWins(t *testing.T) {
	entries := ccsessions.ParseBytes([]byte(
		`{"type":"assistant","message":{"model":"claude-opus"}}
{"type":"assistant","message":{"model":null}}
{"type":"user","message":{"model":"not-an-assistant"}}
{"type":"assistant","message":{"model":"claude-sonnet"}}
{"type":"assistant","message":{}}
`))

	b := BoundsOf(entries)
	assert.Equal(t, "claude-sonnet", b.Model)
	assert.Nil(t, b.Start, "no timestamps means no start, never now")
	assert.Nil(t, b.End)
	assert.Equal(t, 5, b.MessageCount)
}

func TestBoundsOf_OutOfOrderKeepsStartBeforeEnd(t *testing.T) {
	entries := ccsessions.ParseBytes([]byte(
		`{"type":"user","timestamp":"2025-03-02T11:00:00Z"}
{"type":"user","timestamp":"2025-03-02T10:00:00Z"}
`))

	b := BoundsOf(entries)
	require.NotNil(t, b.Start)
	require.NotNil(t, b.End)
	assert.Equal(t, 11, b.Start.UTC().Hour(), "start stays first seen")
	assert.Equal(t, 11, b.End.UTC().Hour(), "end is the latest timestamp")

	s := FromParsed("-p", "/p", &ccsessions.ParsedSession{SessionID: "s1", Entries: entries})
	assert.NoError(t, s.Validate())
	d, ok := s.Duration()
	require.True(t, ok)
	assert.Zero(t, d)
}

func TestComputeBounds_Missing(t *testing.T) {
	b := ComputeBounds("/does/not/exist.jsonl")
	assert.Nil(t, b.Start)
	assert.Nil(t, b.End)
	assert.Zero(t, b.MessageCount)
}

func TestListFiles_OrderedByMtime(t *testing.T) {
	a := testutil.NewArchive(t)
	base := testutil.Day(2025, 3, 1, 12)
	a.Transcript("-p", "old", base, testutil.User("old", "2025-03-01T00:00:00Z", "x"))
	a.Transcript("-p", "new", base.Add(2*time.Hour), testutil.User("new", "2025-03-01T00:00:00Z", "x"))
	a.Transcript("-p", "mid", base.Add(time.Hour), testutil.User("mid", "2025-03-01T00:00:00Z", "x"))
	a.WriteFile(a.Path("projects", "-p", "notes.txt"), "ignored")

	files := ListFiles(a.Path("projects", "-p"))
	require.Len(t, files, 3)
	assert.Equal(t, "new", files[0].ID)
	assert.Equal(t, "mid", files[1].ID)
	assert.Equal(t, "old", files[2].ID)

	assert.Empty(t, ListFiles(a.Path("projects", "-missing")))
}

func TestIndex(t *testing.T) {
	a := testutil.NewArchive(t)
	mtime := testutil.Day(2025, 3, 2, 9)
	main := "11111111-1111-1111-1111-111111111111"

	a.Transcript("-p", main, mtime,
		testutil.User(main, "2025-03-02T08:00:00Z", "hi"),
		"{garbage",
		testutil.Assistant(main, "2025-03-02T08:01:00Z", "claude-opus-4", "Read", "Edit"),
	)
	a.Transcript("-p", "agent-x1", mtime.Add(-time.Hour),
		testutil.User(main, "2025-03-02T08:00:30Z", "subtask"),
	)

	got, err := Index(context.Background(), "-p", "/p", a.Path("projects", "-p"), 4)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, main, got[0].ID)
	assert.Equal(t, 2, got[0].MessageCount)
	assert.Equal(t, "claude-opus-4", got[0].Model)
	assert.False(t, got[0].IsAgent)
	assert.Empty(t, got[0].ParentSessionID)
	assert.True(t, got[0].LastModified.Equal(mtime))

	assert.Equal(t, "agent-x1", got[1].ID)
	assert.True(t, got[1].IsAgent)
	assert.Equal(t, main, got[1].ParentSessionID)
	for _, s := range got {
		assert.NoError(t, s.Validate())
	}
}

func TestMessages(t *testing.T) {
	ps := &ccsessions.ParsedSession{
		SessionID: "s1",
		Entries: ccsessions.ParseBytes([]byte(
			`{"type":"user","uuid":"m1","timestamp":"2025-01-01T00:00:00Z","message":{"role":"user","content":"hello"}}
{"type":"file-history-snapshot","messageId":"m1","timestamp":"2025-01-01T00:00:01Z"}
{"uuid":"no-type","timestamp":"2025-01-01T00:00:02Z"}
{"type":"assistant","uuid":"m2","timestamp":"garbage"}
{"type":"assistant","messageId":"m3","parentUuid":"m1","timestamp":1735689605000,"sessionId":"s1","gitBranch":"dev","message":{"model":"claude-opus","content":[{"type":"text","text":"hi"}]}}
{"type":"system","uuid":"m4","timestamp":"2025-01-01T00:00:06Z"}
`)),
	}

	msgs := Messages(ps)
	require.Len(t, msgs, 3)

	assert.Equal(t, "m1", msgs[0].UUID)
	assert.Equal(t, "s1", msgs[0].SessionID)
	assert.Equal(t, "hello", msgs[0].Text)

	assert.Equal(t, "m3", msgs[1].UUID)
	assert.Equal(t, "m1", msgs[1].ParentUUID)
	assert.Equal(t, "claude-opus", msgs[1].Model)
	assert.Equal(t, "dev", msgs[1].GitBranch)

	assert.Equal(t, models.MessageTypeSystem, msgs[2].Type)
	assert.JSONEq(t, `{"role":"system","content":""}`, string(msgs[2].Content))

	assert.Len(t, FilterMessages(msgs, models.MessageFilterAssistant), 1)
	assert.Len(t, FilterMessages(msgs, models.MessageFilterAll), 3)

	m, ok := FindMessage(msgs, "m3")
	assert.True(t, ok)
	assert.Equal(t, models.MessageTypeAssistant, m.Type)
	_, ok = FindMessage(msgs, "nope")
	assert.False(t, ok)
}

func TestToolsUsed(t *testing.T) {
	ps := &ccsessions.ParsedSession{
		Entries: ccsessions.ParseBytes([]byte(
			`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Read"},{"type":"tool_use","name":"Bash"}]}}
{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Read"},{"type":"text","text":"done"}]}}
{"type":"user","message":{"content":[{"type":"tool_use","name":"NotCounted"}]}}
`)),
	}
	assert.Equal(t, []string{"Bash", "Read"}, ToolsUsed(ps))
	assert.Equal(t, 3, ToolCallCount(ps.Entries))
}
