package agent

import (
	"encoding/json"
	"fmt"

	"github.com/nmnduy/claude-c/pkg/providers"
	"github.com/nmnduy/claude-c/pkg/session"
)

// buildProviderMessages is the C6 Request Builder: it translates a
// conversation snapshot (§3's Message/ContentBlock shape) into the
// provider-independent wire messages C4 expects. A ToolResult block becomes
// its own role-"tool" message carrying tool_call_id, matching §4.6's
// "tool-result content blocks are emitted as dedicated role-tool messages"
// rule.
func buildProviderMessages(msgs []session.Message) []providers.Message {
	out := make([]providers.Message, 0, len(msgs)*2)
	for _, m := range msgs {
		switch m.Role {
		case session.RoleSystem, session.RoleUser:
			out = append(out, expandBlocks(string(m.Role), m.Blocks)...)
		case session.RoleAssistant:
			out = append(out, assistantMessage(m.Blocks))
		}
	}
	return out
}

// expandBlocks renders a system/user message's blocks: plain text becomes
// one message in the given role; each tool result becomes its own
// role-"tool" message.
func expandBlocks(role string, blocks []session.ContentBlock) []providers.Message {
	var out []providers.Message
	var text string
	for _, b := range blocks {
		switch b.Kind {
		case session.BlockText:
			text += b.Text
		case session.BlockToolResult:
			out = append(out, providers.Message{
				Role:       "tool",
				Content:    toolResultContent(b),
				ToolCallID: b.ResultID,
			})
		}
	}
	if text != "" {
		out = append([]providers.Message{{Role: role, Content: text}}, out...)
	}
	return out
}

// assistantMessage folds an assistant turn's text and tool-call blocks into
// a single wire message (§3: "assistant messages contain zero or more Text
// blocks followed by zero or more ToolCall blocks").
func assistantMessage(blocks []session.ContentBlock) providers.Message {
	msg := providers.Message{Role: "assistant"}
	for _, b := range blocks {
		switch b.Kind {
		case session.BlockText:
			msg.Content += b.Text
		case session.BlockToolCall:
			argsJSON, _ := json.Marshal(b.Parameters)
			msg.ToolCalls = append(msg.ToolCalls, providers.ToolCall{
				ID:        b.ID,
				Type:      "function",
				Name:      b.Name,
				Arguments: b.Parameters,
				Function: &providers.FunctionCall{
					Name:      b.Name,
					Arguments: string(argsJSON),
				},
			})
		}
	}
	return msg
}

func toolResultContent(b session.ContentBlock) string {
	if s, ok := b.Output.(string); ok {
		return s
	}
	data, err := json.Marshal(b.Output)
	if err != nil {
		return fmt.Sprintf("%v", b.Output)
	}
	return string(data)
}

// responseToAssistantBlocks converts a provider's normalized response into
// the content blocks appended as the conversation's next assistant turn.
func responseToAssistantBlocks(resp *providers.LLMResponse) []session.ContentBlock {
	var blocks []session.ContentBlock
	if resp.Content != "" {
		blocks = append(blocks, session.NewTextBlock(resp.Content))
	}
	for _, tc := range resp.ToolCalls {
		blocks = append(blocks, session.NewToolCallBlock(tc.ID, tc.Name, tc.Arguments))
	}
	return blocks
}
