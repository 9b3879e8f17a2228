// Package session implements the C1 Conversation Store: an in-memory,
// mutex-guarded, bounded-capacity list of messages shared between the AI
// worker and the request builder. It intentionally does not persist across
// process restarts (resuming a conversation across restarts is a Non-goal).
package session

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nmnduy/claude-c/pkg/logger"
)

// Role identifies who produced a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockKind discriminates ContentBlock's three variants.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockToolCall
	BlockToolResult
)

// ContentBlock is a tagged sum type: exactly one of the payload fields is
// meaningful, selected by Kind.
type ContentBlock struct {
	Kind BlockKind

	// BlockText
	Text string

	// BlockToolCall
	ID         string
	Name       string
	Parameters map[string]any

	// BlockToolResult
	ResultID      string
	ResultName    string
	Output        any
	ResultIsError bool
}

func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Kind: BlockText, Text: text}
}

func NewToolCallBlock(id, name string, parameters map[string]any) ContentBlock {
	return ContentBlock{Kind: BlockToolCall, ID: id, Name: name, Parameters: parameters}
}

func NewToolResultBlock(id, name string, output any, isError bool) ContentBlock {
	return ContentBlock{Kind: BlockToolResult, ResultID: id, ResultName: name, Output: output, ResultIsError: isError}
}

// Message is an ordered list of content blocks produced by one role.
type Message struct {
	Role   Role
	Blocks []ContentBlock
}

// ToolCalls returns every ToolCall block in the message, in order.
func (m Message) ToolCalls() []ContentBlock {
	var out []ContentBlock
	for _, b := range m.Blocks {
		if b.Kind == BlockToolCall {
			out = append(out, b)
		}
	}
	return out
}

// TodoItem is one entry in the TodoList.
type TodoItem struct {
	Content    string
	ActiveForm string
	Status     string // pending | in_progress | completed
}

// TodoList is the ordered list of todo items, replaced wholesale by the
// TodoWrite tool.
type TodoList struct {
	mu    sync.Mutex
	items []TodoItem
}

func (t *TodoList) Replace(items []TodoItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = items
}

func (t *TodoList) Items() []TodoItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TodoItem, len(t.items))
	copy(out, t.items)
	return out
}

func (t *TodoList) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = nil
}

// DefaultMaxMessages is the bounded capacity of a Store (§3: "e.g., 10000").
const DefaultMaxMessages = 10000

// Store is the C1 Conversation Store: ConversationState's message list plus
// the scalar fields ConversationState owns per §3. All mutation happens
// under mu; interrupt is a separately-atomic flag so it can be polled
// without contending on the conversation mutex.
type Store struct {
	mu       sync.Mutex
	messages []Message
	maxLen   int

	APIKey             string
	EndpointURL        string
	Model              string
	WorkingDir         string
	AdditionalDirs     []string
	SessionID          string
	MaxRetryDurationMS int64

	Todo *TodoList

	interrupt atomic.Bool
}

// New creates a Store whose first message is the given system prompt.
func New(systemPrompt, workingDir, sessionID string) *Store {
	return NewWithCapacity(systemPrompt, workingDir, sessionID, DefaultMaxMessages)
}

func NewWithCapacity(systemPrompt, workingDir, sessionID string, maxLen int) *Store {
	if maxLen <= 0 {
		maxLen = DefaultMaxMessages
	}
	s := &Store{
		maxLen:     maxLen,
		WorkingDir: workingDir,
		SessionID:  sessionID,
		Todo:       &TodoList{},
	}
	s.messages = append(s.messages, Message{
		Role:   RoleSystem,
		Blocks: []ContentBlock{NewTextBlock(systemPrompt)},
	})
	return s
}

// Append adds a message to the conversation. If the store is at capacity,
// the message is dropped and an error is logged (§3: "attempts beyond
// capacity drop the new message and log an error").
func (s *Store) Append(msg Message) error {
	if len(msg.Blocks) == 0 {
		return fmt.Errorf("conversation: message with no content blocks rejected")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) >= s.maxLen {
		logger.ErrorCF("conversation", "message store at capacity, dropping append",
			map[string]any{"max_messages": s.maxLen})
		return fmt.Errorf("conversation: store at capacity (%d messages)", s.maxLen)
	}
	s.messages = append(s.messages, msg)
	return nil
}

// AppendToolResults appends one user-role message containing one
// ToolResult block per result, preserving P1 (every ToolCall in the prior
// assistant message is matched by exactly one ToolResult here, in order).
// Ownership of results transfers to the store.
func (s *Store) AppendToolResults(results []ContentBlock) error {
	return s.Append(Message{Role: RoleUser, Blocks: results})
}

// Clear empties the conversation back to just the system message and
// clears the todo list (P2).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) > 0 {
		s.messages = s.messages[:1]
	}
	s.Todo.Clear()
}

// FreeAll releases the conversation entirely, including the system message.
// Used only at process teardown.
func (s *Store) FreeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// SnapshotShapeForRequest returns a copy of the message list suitable for
// handing to the request builder (C6) without holding the store's mutex
// for the duration of request construction.
func (s *Store) SnapshotShapeForRequest() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the current message count, for tests and S6.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// RequestInterrupt sets the interrupt flag. Safe to call from any goroutine.
func (s *Store) RequestInterrupt() { s.interrupt.Store(true) }

// ResetInterrupt clears the interrupt flag, e.g. once a cancelled turn has
// been fully unwound.
func (s *Store) ResetInterrupt() { s.interrupt.Store(false) }

// Interrupted reports the current interrupt flag value.
func (s *Store) Interrupted() bool { return s.interrupt.Load() }
