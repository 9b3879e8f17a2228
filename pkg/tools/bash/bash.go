// Package bash implements the Bash tool (§4.2 / C2): runs a shell command
// to completion, merging stderr into stdout, and reports {exit_code,
// output, timeout_error?}. A timed-out or interrupted process is killed by
// process group: SIGTERM first, then SIGKILL after a 100ms grace period.
package bash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/nmnduy/claude-c/pkg/tools/common"
)

const (
	defaultTimeout = 30 * time.Second
	killGrace      = 100 * time.Millisecond
	// timeoutExitCode is the sentinel exit code (§4.2) reported when a
	// command is killed for exceeding its timeout.
	timeoutExitCode = -2
)

// BashTool executes shell commands in the configured working directory.
type BashTool struct {
	workingDir     string
	defaultTimeout time.Duration
	// Interrupt reports whether the enclosing turn has been cancelled; it is
	// checked before the process starts and again on every wake of the
	// output-drain select loop.
	Interrupt func() bool
}

// NewBashTool builds a BashTool. defaultTimeoutSeconds <= 0 falls back to
// 30s; the Bash contract's own per-call timeout (0 disables) always takes
// precedence when supplied.
func NewBashTool(workingDir string, defaultTimeoutSeconds int) *BashTool {
	timeout := defaultTimeout
	if defaultTimeoutSeconds > 0 {
		timeout = time.Duration(defaultTimeoutSeconds) * time.Second
	}
	return &BashTool{workingDir: workingDir, defaultTimeout: timeout}
}

func (t *BashTool) Name() string { return "bash" }

func (t *BashTool) Description() string {
	return "Run a shell command to completion and return its combined stdout/stderr output"
}

func (t *BashTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The shell command to run",
			},
			"timeout": map[string]any{
				"type":        "integer",
				"description": "Timeout in seconds; 0 disables the timeout",
			},
		},
		"required": []string{"command"},
	}
}

type bashResult struct {
	ExitCode     int    `json:"exit_code"`
	Output       string `json:"output"`
	TimeoutError string `json:"timeout_error,omitempty"`
}

func (r bashResult) json() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func (t *BashTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	command, ok := args["command"].(string)
	if !ok || command == "" {
		return common.ErrorResult("command is required")
	}

	if t.interrupted() {
		return common.NewToolResult(bashResult{ExitCode: -1, Output: "", TimeoutError: "cancelled"}.json())
	}

	timeout := t.defaultTimeout
	if raw, present := args["timeout"]; present {
		n, err := toInt(raw)
		if err != nil {
			return common.ErrorResult("timeout must be an integer number of seconds")
		}
		if n == 0 {
			timeout = 0
		} else if n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	cmd := exec.Command("sh", "-c", command)
	if t.workingDir != "" {
		cmd.Dir = t.workingDir
	}
	setProcessGroup(cmd)

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Start(); err != nil {
		return common.NewToolResult(bashResult{ExitCode: -1, Output: fmt.Sprintf("failed to start command: %v", err)}.json())
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		timeoutCh = timer.C
		defer timer.Stop()
	}

	pollInterval := 50 * time.Millisecond
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			return common.NewToolResult(exitResult(combined.String(), err).json())
		case <-timeoutCh:
			killProcessGroup(cmd)
			<-done
			return common.NewToolResult(bashResult{
				ExitCode:     timeoutExitCode,
				Output:       combined.String(),
				TimeoutError: fmt.Sprintf("command timed out after %s", timeout),
			}.json())
		case <-ticker.C:
			if t.interrupted() {
				killProcessGroup(cmd)
				<-done
				return common.NewToolResult(bashResult{
					ExitCode:     timeoutExitCode,
					Output:       combined.String(),
					TimeoutError: "cancelled",
				}.json())
			}
		case <-ctx.Done():
			killProcessGroup(cmd)
			<-done
			return common.NewToolResult(bashResult{
				ExitCode:     timeoutExitCode,
				Output:       combined.String(),
				TimeoutError: ctx.Err().Error(),
			}.json())
		}
	}
}

func (t *BashTool) interrupted() bool {
	return t.Interrupt != nil && t.Interrupt()
}

func exitResult(output string, err error) bashResult {
	if err == nil {
		return bashResult{ExitCode: 0, Output: output}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return bashResult{ExitCode: exitErr.ExitCode(), Output: output}
	}
	return bashResult{ExitCode: -1, Output: output + "\n" + err.Error()}
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("not a number")
	}
}
