package agent

import (
	"testing"

	"github.com/nmnduy/claude-c/pkg/providers"
)

func TestSanitizeToolPairs_NoOrphans(t *testing.T) {
	msgs := []providers.Message{
		{Role: "user", Content: "hello"},
		{
			Role: "assistant", Content: "let me check",
			ToolCalls: []providers.ToolCall{{ID: "call_1", Name: "bash"}},
		},
		{Role: "tool", Content: "output", ToolCallID: "call_1"},
		{Role: "assistant", Content: "done"},
	}
	got := sanitizeToolPairs(msgs)
	if len(got) != 4 {
		t.Errorf("expected 4 messages, got %d", len(got))
	}
}

func TestSanitizeToolPairs_DropsOrphanedAssistantToolCall(t *testing.T) {
	msgs := []providers.Message{
		{Role: "user", Content: "hello"},
		{
			Role: "assistant", Content: "",
			ToolCalls: []providers.ToolCall{{ID: "call_1", Name: "bash"}},
		},
	}
	got := sanitizeToolPairs(msgs)
	if len(got) != 1 {
		t.Fatalf("expected orphaned tool_call message dropped, got %d messages", len(got))
	}
}

func TestSanitizeToolPairs_StripsToolCallsKeepingText(t *testing.T) {
	msgs := []providers.Message{
		{Role: "user", Content: "hello"},
		{
			Role: "assistant", Content: "let me check",
			ToolCalls: []providers.ToolCall{{ID: "call_1", Name: "bash"}},
		},
	}
	got := sanitizeToolPairs(msgs)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if len(got[1].ToolCalls) != 0 {
		t.Errorf("expected tool calls stripped, got %d", len(got[1].ToolCalls))
	}
	if got[1].Content != "let me check" {
		t.Errorf("expected text content preserved, got %q", got[1].Content)
	}
}

func TestSanitizeToolPairs_DropsOrphanedToolResult(t *testing.T) {
	msgs := []providers.Message{
		{Role: "user", Content: "hello"},
		{Role: "tool", Content: "orphaned output", ToolCallID: "call_orphan"},
		{Role: "assistant", Content: "hi"},
	}
	got := sanitizeToolPairs(msgs)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages (user + assistant), got %d", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" {
		t.Errorf("unexpected message roles: %q, %q", got[0].Role, got[1].Role)
	}
}

func TestSanitizeToolPairs_EmptyInput(t *testing.T) {
	if got := sanitizeToolPairs(nil); len(got) != 0 {
		t.Errorf("expected 0 messages for nil input, got %d", len(got))
	}
	if got := sanitizeToolPairs([]providers.Message{}); len(got) != 0 {
		t.Errorf("expected 0 messages for empty input, got %d", len(got))
	}
}
