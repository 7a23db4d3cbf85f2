package search

import (
	"os"
	"testing"
	"time"

	"github.com/neilberkman/ccscope/internal/core/db"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/models"
)

func newSnapshot(t *testing.T) *db.DB {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })
	_ = tmpfile.Close()

	database, err := db.New(tmpfile.Name())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// addSession inserts a project (if new), a session and its messages. Each
// message is one minute after the previous.
func addSession(t *testing.T, database *db.DB, projectID, sessionID string, texts ...string) {
	t.Helper()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tx, err := database.Begin()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback() }()

	path := "/test/" + projectID
	_, _ = tx.Exec("INSERT OR IGNORE INTO projects (id, path) VALUES (?, ?)", projectID, path)

	rowID, err := db.InsertSession(tx, models.Session{ID: sessionID, ProjectID: projectID, ProjectPath: path, StartTime: &start, LastModified: start})
	if err != nil {
		t.Fatalf("Failed to insert session: %v", err)
	}

	msgs := make([]models.Message, len(texts))
	for i, text := range texts {
		msgs[i] = models.Message{
			UUID:      sessionID + "-msg-" + string(rune('1'+i)),
			Type:      models.MessageTypeUser,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Text:      text,
		}
	}
	if _, err := db.InsertMessages(tx, rowID, msgs); err != nil {
		t.Fatalf("Failed to insert messages: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestSearch(t *testing.T) {
	database := newSnapshot(t)
	addSession(t, database, "auth", "s1",
		"Let's implement user authentication with JWT tokens",
		"I'll help you implement authentication. First, let's create the auth middleware",
		"Can you write the getUserById function?",
		"Sure, here's the getUserById function implementation",
		"Let's add database migrations for the users table",
	)

	t.Run("BasicSearch", func(t *testing.T) {
		results, err := Search(database, "authentication", Options{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}

		if len(results) != 2 {
			t.Errorf("Expected 2 results for 'authentication', got %d", len(results))
		}

		for _, r := range results {
			if r.SessionID != "s1" {
				t.Errorf("Unexpected session %s", r.SessionID)
			}
			if r.MessageText == "" {
				t.Error("MessageText is empty")
			}
			if r.ProjectPath != "/test/auth" {
				t.Errorf("Unexpected project path %s", r.ProjectPath)
			}
		}

		// most recent first
		if len(results) == 2 && results[0].MessageUUID != "s1-msg-2" {
			t.Errorf("Expected s1-msg-2 first, got %s", results[0].MessageUUID)
		}
	})

	t.Run("PhraseSearch", func(t *testing.T) {
		results, err := Search(database, "user authentication", Options{})
		if err != nil {
			t.Fatalf("Phrase search failed: %v", err)
		}

		if len(results) == 0 {
			t.Error("Expected results for 'user authentication'")
		}
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		results, err := Search(database, "  ", Options{})
		if !ccerrors.Is(err, ccerrors.ErrCodeInvalidInput) {
			t.Errorf("Expected INVALID_INPUT for empty query, got %v", err)
		}
		if results != nil {
			t.Error("Expected nil results for empty query")
		}
	})

	t.Run("NoResults", func(t *testing.T) {
		results, err := Search(database, "nonexistent", Options{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}

		if len(results) != 0 {
			t.Errorf("Expected 0 results, got %d", len(results))
		}
	})

	t.Run("Limit", func(t *testing.T) {
		results, err := Search(database, "getUserById", Options{Limit: 1})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("Expected 1 result, got %d", len(results))
		}
	})
}

func TestSearchCode(t *testing.T) {
	database := newSnapshot(t)
	addSession(t, database, "code", "s2",
		"The getUserById function is important",
		"Let's refactor handleUserRequest to be more efficient",
		"The parseJSONResponse method needs error handling",
		"We should use camelCaseVariable naming convention",
	)

	t.Run("CamelCaseSearch", func(t *testing.T) {
		results, err := SearchCode(database, "getUserById", Options{})
		if err != nil {
			t.Fatalf("Code search failed: %v", err)
		}

		if len(results) != 1 || results[0].MessageUUID != "s2-msg-1" {
			t.Errorf("Expected only s2-msg-1, got %+v", results)
		}
	})

	t.Run("WildcardSearch", func(t *testing.T) {
		results, err := SearchCode(database, "handle*", Options{})
		if err != nil {
			t.Fatalf("Wildcard search failed: %v", err)
		}

		if len(results) == 0 {
			t.Error("Expected results for 'handle*' wildcard")
		}
	})

	t.Run("SpecialCharsFallBackToSubstring", func(t *testing.T) {
		results, err := SearchCode(database, "parseJSON-", Options{})
		if err != nil {
			t.Fatalf("Substring search failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("Expected no substring hits, got %d", len(results))
		}

		results, err = Search(database, "camelCase", Options{})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("Porter table should not prefix-match camelCase, got %d", len(results))
		}
	})
}

func TestSearch_ProjectFilter(t *testing.T) {
	database := newSnapshot(t)
	addSession(t, database, "one", "a", "deploy the service")
	addSession(t, database, "two", "b", "deploy the worker")

	results, err := Search(database, "deploy", Options{ProjectID: "two"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].SessionID != "b" {
		t.Errorf("Expected only session b, got %+v", results)
	}

	results, err = Search(database, "the-worker", Options{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no hits for a hyphenated substring, got %+v", results)
	}

	results, err = Search(database, "the worker", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 hit, got %d", len(results))
	}
}

func TestSearchPrompts(t *testing.T) {
	database := newSnapshot(t)

	tx, err := database.Begin()
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, display := range []string{"fix the flaky tests", "write a README", "tests for ~/src/app.go"} {
		ts := at.Add(time.Duration(i) * time.Hour)
		if err := db.InsertPrompt(tx, db.Prompt{Display: display, Timestamp: &ts, ProjectID: "p"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	results, err := SearchPrompts(database, "test", Options{})
	if err != nil {
		t.Fatalf("SearchPrompts failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 prompt hits, got %d", len(results))
	}
	if results[0].Display != "tests for ~/src/app.go" {
		t.Errorf("Expected newest prompt first, got %q", results[0].Display)
	}

	results, err = SearchPrompts(database, "app.go", Options{})
	if err != nil {
		t.Fatalf("Substring prompt search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 substring hit, got %d", len(results))
	}

	results, err = SearchPrompts(database, "README", Options{ProjectID: "other"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("Expected project filter to exclude hit, got %d", len(results))
	}
}
