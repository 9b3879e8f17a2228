// Package sleep implements the Sleep tool (§4.2 / C2): pauses for a given
// number of seconds. Exists for testing timeout and interrupt behavior.
package sleep

import (
	"context"
	"time"

	"github.com/nmnduy/claude-c/pkg/tools/common"
)

type SleepTool struct{}

func NewSleepTool() *SleepTool { return &SleepTool{} }

func (t *SleepTool) Name() string { return "sleep" }

func (t *SleepTool) Description() string {
	return "Pause for a number of seconds; used for testing timeouts and interruption"
}

func (t *SleepTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration": map[string]any{"type": "integer", "description": "Seconds to sleep"},
		},
		"required": []string{"duration"},
	}
}

func (t *SleepTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	duration, err := intArg(args, "duration")
	if err != nil {
		return common.ErrorResult("duration is required and must be an integer number of seconds")
	}
	if duration < 0 {
		return common.ErrorResult("duration must not be negative")
	}

	timer := time.NewTimer(time.Duration(duration) * time.Second)
	defer timer.Stop()

	select {
	case <-timer.C:
		return common.NewToolResult(`{"status":"success"}`)
	case <-ctx.Done():
		return common.NewToolResult(`{"status":"cancelled"}`)
	}
}

func intArg(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, errMissing(key)
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, errMissing(key)
	}
}

type missingArgError struct{ key string }

func (e *missingArgError) Error() string { return e.key + " is required" }

func errMissing(key string) error { return &missingArgError{key: key} }
