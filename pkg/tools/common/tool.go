package common

import "context"

// Tool is the contract every C2 tool implementation satisfies: JSON parameters
// in, a ToolResult out. A tool must never panic; input errors are reported via
// ToolResult.IsError, not an uncaught exception.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) *ToolResult
}

// ContextualTool is implemented by tools whose behavior depends on the
// conversation's channel/chat scoping. The registry does not call
// SetContext; it only treats such tools as unsafe for shared parallel use.
type ContextualTool interface {
	SetContext(channel, chatID string)
}

// AsyncCallback delivers an out-of-band ToolResult for a tool that reports
// completion after its initial Execute call returns (Async == true).
type AsyncCallback func(*ToolResult)

// AsyncTool is implemented by tools that may return an immediate
// acknowledgement and report their real result later via AsyncCallback.
type AsyncTool interface {
	SetCallback(AsyncCallback)
}

// ToolResult is the outcome of one tool invocation.
//
// ForLLM is always populated and is what gets embedded in the tool-result
// content block sent back to the model. ForUser, when non-empty and not
// Silent, is additionally rendered to the interactive UI. IsError marks a
// failed invocation; ErrorResult sets it and puts the plain error message
// in ForLLM.
type ToolResult struct {
	ForLLM  string
	ForUser string
	IsError bool
	Async   bool
	Silent  bool
	Err     error
}

// WithError attaches the underlying Go error to an error result for logging,
// without changing what is sent to the model (ForLLM is already set).
func (r *ToolResult) WithError(err error) *ToolResult {
	r.Err = err
	r.IsError = true
	return r
}

func NewToolResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM, ForUser: forLLM}
}

// SilentResult produces a result that is sent to the model but not echoed to
// the interactive UI (used by append_file).
func SilentResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM, Silent: true}
}

// AsyncResult marks a result as an acknowledgement; the real completion
// arrives later through the tool's AsyncCallback.
func AsyncResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM, ForUser: forLLM, Async: true}
}

func ErrorResult(message string) *ToolResult {
	return &ToolResult{ForLLM: message, ForUser: message, IsError: true}
}

// UserResult produces a result that shows the same content to the model and
// to the user.
func UserResult(content string) *ToolResult {
	return &ToolResult{ForLLM: content, ForUser: content}
}
