// Package todowrite implements the TodoWrite tool (§4.2 / C2): replaces the
// session's todo list wholesale and reports how many items are now tracked.
package todowrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nmnduy/claude-c/pkg/session"
	"github.com/nmnduy/claude-c/pkg/tools/common"
)

var validStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"completed":   true,
}

type TodoWriteTool struct {
	todos *session.TodoList
}

func NewTodoWriteTool(todos *session.TodoList) *TodoWriteTool {
	return &TodoWriteTool{todos: todos}
}

func (t *TodoWriteTool) Name() string { return "todo_write" }

func (t *TodoWriteTool) Description() string {
	return "Replace the current todo list with an updated set of tasks"
}

func (t *TodoWriteTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"todos": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"content":    map[string]any{"type": "string"},
						"activeForm": map[string]any{"type": "string"},
						"status":     map[string]any{"type": "string", "enum": []string{"pending", "in_progress", "completed"}},
					},
					"required": []string{"content", "activeForm", "status"},
				},
			},
		},
		"required": []string{"todos"},
	}
}

func (t *TodoWriteTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	raw, ok := args["todos"].([]any)
	if !ok {
		return common.ErrorResult("todos must be an array")
	}

	items := make([]session.TodoItem, 0, len(raw))
	for i, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			return common.ErrorResult(fmt.Sprintf("todos[%d] must be an object", i))
		}
		content, _ := obj["content"].(string)
		activeForm, _ := obj["activeForm"].(string)
		status, _ := obj["status"].(string)
		if strings.TrimSpace(content) == "" {
			return common.ErrorResult(fmt.Sprintf("todos[%d].content is required", i))
		}
		if !validStatuses[status] {
			return common.ErrorResult(fmt.Sprintf("todos[%d].status must be one of pending, in_progress, completed", i))
		}
		items = append(items, session.TodoItem{Content: content, ActiveForm: activeForm, Status: status})
	}

	t.todos.Replace(items)

	status := map[string]any{
		"status": "success",
		"added":  len(items),
		"total":  len(t.todos.Items()),
	}
	data, _ := json.Marshal(status)
	return common.NewToolResult(string(data))
}
