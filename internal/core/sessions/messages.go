package sessions

import (
	"encoding/json"
	"sort"

	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/neilberkman/ccscope/pkg/ccsessions"
)

// Messages converts transcript entries to messages. Entries without a type
// tag, snapshot entries and entries without a parsable timestamp are not
// messages.
func Messages(ps *ccsessions.ParsedSession) []models.Message {
	var out []models.Message
	for _, e := range ps.Entries {
		if e.Type == "" || e.Kind == ccsessions.KindSnapshot {
			continue
		}
		ts, ok := e.Timestamp()
		if !ok {
			continue
		}

		id := e.UUID()
		if id == "" {
			id = e.MessageID()
		}
		sessionID, ok := e.SessionID()
		if !ok {
			sessionID = ps.SessionID
		}
		content := e.Message()
		if content == nil {
			content, _ = json.Marshal(map[string]string{"role": e.Type, "content": ""})
		}
		model, _ := e.String("message.model")

		out = append(out, models.Message{
			UUID:       id,
			ParentUUID: e.ParentUUID(),
			Type:       models.MessageType(e.Type),
			Timestamp:  ts,
			SessionID:  sessionID,
			Content:    content,
			Model:      model,
			CWD:        e.CWD(),
			GitBranch:  e.GitBranch(),
			Text:       e.Text(),
		})
	}
	return out
}

// FindMessage returns the message with the given uuid.
func FindMessage(msgs []models.Message, id string) (models.Message, bool) {
	for _, m := range msgs {
		if m.UUID == id {
			return m, true
		}
	}
	return models.Message{}, false
}

// FilterMessages keeps messages passing f.
func FilterMessages(msgs []models.Message, f models.MessageFilter) []models.Message {
	if f == models.MessageFilterAll || f == "" {
		return msgs
	}
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if f.Match(m.Type) {
			out = append(out, m)
		}
	}
	return out
}

// ToolsUsed returns the distinct tool names invoked by assistant turns.
func ToolsUsed(ps *ccsessions.ParsedSession) []string {
	seen := map[string]bool{}
	for _, e := range ps.Entries {
		for _, use := range e.ToolUses() {
			if use.Name != "" {
				seen[use.Name] = true
			}
		}
	}
	tools := make([]string, 0, len(seen))
	for name := range seen {
		tools = append(tools, name)
	}
	sort.Strings(tools)
	return tools
}

// ToolCallCount counts tool_use blocks across assistant turns.
func ToolCallCount(entries []ccsessions.Entry) int {
	n := 0
	for _, e := range entries {
		n += len(e.ToolUses())
	}
	return n
}

// TotalTokens sums the usage counters Claude Code records on assistant
// turns: input, output and both cache counters.
func TotalTokens(entries []ccsessions.Entry) int {
	total := 0
	for _, e := range entries {
		if e.Kind != ccsessions.KindAssistant {
			continue
		}
		usage := e.Get("message.usage")
		if !usage.IsObject() {
			continue
		}
		for _, field := range []string{"input_tokens", "output_tokens", "cache_read_input_tokens", "cache_creation_input_tokens"} {
			total += int(usage.Get(field).Int())
		}
	}
	return total
}
