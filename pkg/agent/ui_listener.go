package agent

import (
	"fmt"

	"github.com/nmnduy/claude-c/pkg/ui"
)

// QueueListener adapts AgentEventListener onto the C8 TUIMessageQueue,
// grounded on the ThinkingStarted/ToolCallStarted/ToolCallCompleted/
// ResponseComplete/Error → AddLine/Status/Error/Clear mapping the teacher's
// TUI event converter used.
type QueueListener struct {
	Queue *ui.MessageQueue
}

func NewQueueListener(q *ui.MessageQueue) *QueueListener {
	return &QueueListener{Queue: q}
}

func (l *QueueListener) OnEvent(evt AgentEvent) {
	if l.Queue == nil {
		return
	}
	switch evt.Type {
	case EventThinkingStarted:
		l.Queue.Post(ui.Message{Kind: ui.Status, Payload: "Thinking..."})
	case EventToolCallStarted:
		data, _ := evt.Data.(ToolCallStartedData)
		l.Queue.Post(ui.Message{Kind: ui.Status, Payload: statusLabel(data.Name, data.Args)})
	case EventToolCallCompleted:
		data, _ := evt.Data.(ToolCallCompletedData)
		if data.IsError {
			l.Queue.Post(ui.Message{Kind: ui.AddLine, Payload: fmt.Sprintf("✗ %s failed: %s", data.Name, data.Result)})
		} else {
			l.Queue.Post(ui.Message{Kind: ui.AddLine, Payload: fmt.Sprintf("✓ %s", data.Name)})
		}
	case EventResponseComplete:
		data, _ := evt.Data.(ResponseCompleteData)
		l.Queue.Post(ui.Message{Kind: ui.AddLine, Payload: data.Content})
		l.Queue.Post(ui.Message{Kind: ui.Status, Payload: ""})
	case EventError:
		data, _ := evt.Data.(ErrorData)
		msg := "unknown error"
		if data.Err != nil {
			msg = userFriendlyError(data.Err)
		}
		l.Queue.Post(ui.Message{Kind: ui.Error, Payload: msg})
		l.Queue.Post(ui.Message{Kind: ui.Status, Payload: ""})
	}
}
