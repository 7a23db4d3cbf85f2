package db

import (
	"testing"
	"time"

	"github.com/neilberkman/ccscope/internal/core/models"
)

func insertMessages(t *testing.T, database *DB, texts ...string) {
	t.Helper()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tx, err := database.Begin()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := InsertProject(tx, models.Project{ID: "-test-project", Path: "/test/project", Name: "project"}); err != nil {
		t.Fatal(err)
	}
	rowID, err := InsertSession(tx, models.Session{ID: "test-session-123", ProjectID: "-test-project", ProjectPath: "/test/project", StartTime: &start, LastModified: start})
	if err != nil {
		t.Fatal(err)
	}

	msgs := make([]models.Message, len(texts))
	for i, text := range texts {
		msgs[i] = models.Message{
			UUID:      "msg-" + string(rune('1'+i)),
			Type:      models.MessageTypeUser,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Text:      text,
		}
	}
	if _, err := InsertMessages(tx, rowID, msgs); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func matchUUIDs(t *testing.T, database *DB, table, query string) []string {
	t.Helper()
	rows, err := database.Query(`
		SELECT m.uuid
		FROM messages m
		JOIN `+table+` ON `+table+`.rowid = m.id
		WHERE `+table+` MATCH ?
		ORDER BY m.id
	`, query)
	if err != nil {
		t.Fatalf("FTS query failed: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var uuids []string
	for rows.Next() {
		var uuid string
		if err := rows.Scan(&uuid); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		uuids = append(uuids, uuid)
	}
	return uuids
}

func TestFTSSearch(t *testing.T) {
	database := newTestDB(t)
	insertMessages(t, database,
		"Hello world this is a test",
		"Let's write some authentication code",
		"The getUserById function returns a user",
		"camelCaseVariable should be preserved",
	)

	t.Run("PorterStemming", func(t *testing.T) {
		got := matchUUIDs(t, database, "messages_fts", "authentication")
		if len(got) != 1 || got[0] != "msg-2" {
			t.Errorf("Expected [msg-2], got %v", got)
		}
	})

	t.Run("CodeSearch", func(t *testing.T) {
		got := matchUUIDs(t, database, "messages_fts_code", "camelCase*")
		if len(got) != 1 || got[0] != "msg-4" {
			t.Errorf("Expected [msg-4], got %v", got)
		}
	})

	t.Run("PhraseSearch", func(t *testing.T) {
		got := matchUUIDs(t, database, "messages_fts", `"Hello world"`)
		if len(got) != 1 || got[0] != "msg-1" {
			t.Errorf("Expected [msg-1], got %v", got)
		}
	})

	t.Run("WildcardSearch", func(t *testing.T) {
		got := matchUUIDs(t, database, "messages_fts_code", "getUser*")
		if len(got) != 1 || got[0] != "msg-3" {
			t.Errorf("Expected [msg-3], got %v", got)
		}
	})
}

func TestFTSTriggers(t *testing.T) {
	database := newTestDB(t)
	insertMessages(t, database, "original searchable content")

	if got := matchUUIDs(t, database, "messages_fts", "searchable"); len(got) != 1 {
		t.Fatalf("Expected insert trigger to index message, got %v", got)
	}

	if _, err := database.Exec("DELETE FROM messages"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got := matchUUIDs(t, database, "messages_fts", "searchable"); len(got) != 0 {
		t.Errorf("Expected delete trigger to drop message from index, got %v", got)
	}
	if got := matchUUIDs(t, database, "messages_fts_code", "searchable"); len(got) != 0 {
		t.Errorf("Expected delete trigger to drop message from code index, got %v", got)
	}
}

func TestPromptFTS(t *testing.T) {
	database := newTestDB(t)

	tx, err := database.Begin()
	if err != nil {
		t.Fatal(err)
	}
	for _, display := range []string{"refactor the parsing code", "deploy to staging", "parse errors again"} {
		if err := InsertPrompt(tx, Prompt{Display: display}); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	var count int
	err = database.QueryRow(`SELECT COUNT(*) FROM prompts_fts WHERE prompts_fts MATCH ?`, "parsed").Scan(&count)
	if err != nil {
		t.Fatalf("Prompt FTS query failed: %v", err)
	}
	// porter reduces parsed, parsing and parse to one stem
	if count != 2 {
		t.Errorf("Expected 2 prompt matches, got %d", count)
	}
}
