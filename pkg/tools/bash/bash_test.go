package bash

import (
	"context"
	"strings"
	"testing"
)

func TestBashTool_Success(t *testing.T) {
	tool := NewBashTool("", 5)
	result := tool.Execute(context.Background(), map[string]any{
		"command": "echo hello",
	})

	if result.IsError {
		t.Fatalf("expected success, got: %s", result.ForLLM)
	}
	if !strings.Contains(result.ForLLM, `"exit_code":0`) {
		t.Fatalf("expected exit_code 0, got: %s", result.ForLLM)
	}
	if !strings.Contains(result.ForLLM, "hello") {
		t.Fatalf("expected output to contain hello, got: %s", result.ForLLM)
	}
}

func TestBashTool_MergesStderrIntoStdout(t *testing.T) {
	tool := NewBashTool("", 5)
	result := tool.Execute(context.Background(), map[string]any{
		"command": "echo out; echo err 1>&2",
	})

	if result.IsError {
		t.Fatalf("expected success, got: %s", result.ForLLM)
	}
	if !strings.Contains(result.ForLLM, "out") || !strings.Contains(result.ForLLM, "err") {
		t.Fatalf("expected combined stdout/stderr, got: %s", result.ForLLM)
	}
}

func TestBashTool_NonZeroExit(t *testing.T) {
	tool := NewBashTool("", 5)
	result := tool.Execute(context.Background(), map[string]any{
		"command": "exit 7",
	})

	if !strings.Contains(result.ForLLM, `"exit_code":7`) {
		t.Fatalf("expected exit_code 7, got: %s", result.ForLLM)
	}
}

func TestBashTool_MissingCommand(t *testing.T) {
	tool := NewBashTool("", 5)
	result := tool.Execute(context.Background(), map[string]any{})
	if !result.IsError {
		t.Fatalf("expected error when command is missing")
	}
}

func TestBashTool_TimeoutKillsProcess(t *testing.T) {
	tool := NewBashTool("", 5)
	result := tool.Execute(context.Background(), map[string]any{
		"command": "sleep 5",
		"timeout": float64(1),
	})

	if !strings.Contains(result.ForLLM, `"exit_code":-2`) {
		t.Fatalf("expected timeout exit_code -2, got: %s", result.ForLLM)
	}
	if !strings.Contains(result.ForLLM, "timeout_error") {
		t.Fatalf("expected timeout_error field, got: %s", result.ForLLM)
	}
}

func TestBashTool_ZeroTimeoutDisablesDefault(t *testing.T) {
	tool := NewBashTool("", 1)
	result := tool.Execute(context.Background(), map[string]any{
		"command": "sleep 0.2 && echo done",
		"timeout": float64(0),
	})

	if result.IsError {
		t.Fatalf("expected success with disabled timeout, got: %s", result.ForLLM)
	}
	if !strings.Contains(result.ForLLM, "done") {
		t.Fatalf("expected command to complete, got: %s", result.ForLLM)
	}
}

func TestBashTool_InterruptCancelsBeforeStart(t *testing.T) {
	tool := NewBashTool("", 5)
	tool.Interrupt = func() bool { return true }

	result := tool.Execute(context.Background(), map[string]any{
		"command": "echo hello",
	})

	if !strings.Contains(result.ForLLM, "cancelled") {
		t.Fatalf("expected cancelled result, got: %s", result.ForLLM)
	}
}
