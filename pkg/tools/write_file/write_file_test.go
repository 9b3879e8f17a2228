package write_file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileTool_CreatesNewFile(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "new.txt")

	tool := NewWriteFileTool("", false)
	result := tool.Execute(context.Background(), map[string]any{
		"file_path": target,
		"content":   "hello",
	})

	if result.IsError {
		t.Fatalf("expected success, got: %s", result.ForLLM)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("expected file to be written: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected content %q, got %q", "hello", string(data))
	}
	if !strings.Contains(result.ForLLM, `"status":"success"`) {
		t.Fatalf("expected success status, got: %s", result.ForLLM)
	}
}

func TestWriteFileTool_OverwriteEmitsDiff(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "existing.txt")
	os.WriteFile(target, []byte("old\n"), 0o644)

	tool := NewWriteFileTool("", false)
	result := tool.Execute(context.Background(), map[string]any{
		"file_path": target,
		"content":   "new\n",
	})

	if result.IsError {
		t.Fatalf("expected success, got: %s", result.ForLLM)
	}
	if !strings.Contains(result.ForUser, "-old") || !strings.Contains(result.ForUser, "+new") {
		t.Fatalf("expected unified diff in ForUser, got: %s", result.ForUser)
	}
}

func TestWriteFileTool_MissingFilePath(t *testing.T) {
	tool := NewWriteFileTool("", false)
	result := tool.Execute(context.Background(), map[string]any{"content": "x"})
	if !result.IsError {
		t.Fatalf("expected error when file_path is missing")
	}
}

func TestWriteFileTool_AppliesUnifiedPatch(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "patched.txt")
	os.WriteFile(target, []byte("one\ntwo\nthree\n"), 0o644)

	patch := "@@ -1,3 +1,3 @@\n one\n-two\n+TWO\n three\n"

	tool := NewWriteFileTool("", false)
	result := tool.Execute(context.Background(), map[string]any{
		"file_path": target,
		"content":   patch,
	})

	if result.IsError {
		t.Fatalf("expected success applying patch, got: %s", result.ForLLM)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "one\nTWO\nthree\n" {
		t.Fatalf("unexpected patched content: %q", string(data))
	}
}
