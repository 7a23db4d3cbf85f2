package correlate

import (
	"os"
	"path/filepath"

	"github.com/neilberkman/ccscope/internal/core/archive"
	"github.com/neilberkman/ccscope/internal/core/models"
	"github.com/tidwall/gjson"
)

// Todos merges every todo file or directory whose name starts with the
// session id. Files may hold {todos: [...]}, a single record with both
// content and status, or a bare array of records.
func (r *Resolver) Todos(sessionID string) []models.TodoItem {
	todos := []models.TodoItem{}
	dir := r.layout.TodosDir()

	for _, entry := range archive.ReadDir(dir) {
		if !hasPrefixFold(entry.Name(), sessionID) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if archive.IsDirOrSymlink(dir, entry) {
			for _, inner := range archive.ReadDir(path) {
				if !inner.IsDir() && filepath.Ext(inner.Name()) == ".json" {
					todos = append(todos, readTodoFile(filepath.Join(path, inner.Name()))...)
				}
			}
			continue
		}
		if filepath.Ext(entry.Name()) == ".json" {
			todos = append(todos, readTodoFile(path)...)
		}
	}
	return todos
}

func readTodoFile(path string) []models.TodoItem {
	data, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(data) {
		log.WithField("file", path).Debug("skipping unreadable todo file")
		return nil
	}
	return parseTodos(gjson.ParseBytes(data))
}

func parseTodos(root gjson.Result) []models.TodoItem {
	switch {
	case root.IsArray():
		return todoList(root)
	case root.IsObject():
		if list := root.Get("todos"); list.IsArray() {
			return todoList(list)
		}
		// a lone record needs both fields
		if item, ok := todoItem(root); ok && item.Content != "" && item.Status != "" {
			return []models.TodoItem{item}
		}
	}
	return nil
}

func todoList(list gjson.Result) []models.TodoItem {
	var items []models.TodoItem
	list.ForEach(func(_, v gjson.Result) bool {
		if item, ok := todoItem(v); ok {
			items = append(items, item)
		}
		return true
	})
	return items
}

func todoItem(v gjson.Result) (models.TodoItem, bool) {
	if !v.IsObject() {
		return models.TodoItem{}, false
	}
	content := v.Get("content")
	if content.Type != gjson.String {
		return models.TodoItem{}, false
	}
	return models.TodoItem{
		Content:    content.Str,
		Status:     v.Get("status").String(),
		ActiveForm: v.Get("activeForm").String(),
	}, true
}
