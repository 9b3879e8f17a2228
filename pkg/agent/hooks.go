package agent

import (
	"context"
	"time"

	"github.com/nmnduy/claude-c/pkg/providers"
)

// Hooks provides lifecycle integration points for the agent loop.
// All fields are optional — nil checks only, zero cost when unused.
type Hooks struct {
	// OnContextBuild takes a query and returns additional context for the
	// system prompt. The Worker does not call it.
	OnContextBuild func(ctx context.Context, query string) (string, error)

	// OnPreTool is called before each tool execution.
	OnPreTool func(ctx context.Context, name string, args map[string]interface{}) error

	// OnPostTool is called after each tool execution with the result and duration.
	OnPostTool func(ctx context.Context, name string, result string, dur time.Duration)

	// OnPreLLM is called before each LLM call, allowing message mutation.
	OnPreLLM func(ctx context.Context, messages []providers.Message) []providers.Message

	// OnPostMessage takes a completed message exchange. The Worker does not
	// call it.
	OnPostMessage func(ctx context.Context, sessionKey, userMsg, response string)
}
