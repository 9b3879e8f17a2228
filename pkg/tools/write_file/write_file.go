// Package write_file implements the Write tool (§4.2 / C2 and §6.3): writes
// file content, detecting a unified-diff patch envelope and delegating to a
// patch applier, or else overwriting the file directly and emitting a
// unified diff to the UI when the file already existed.
package write_file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nmnduy/claude-c/pkg/tools/common"
	"github.com/pmezard/go-difflib/difflib"
)

type WriteFileTool struct {
	fs        common.FileSystem
	workspace string
}

func NewWriteFileTool(workspace string, restrict bool) *WriteFileTool {
	var fs common.FileSystem
	if restrict {
		fs = &common.SandboxFs{Workspace: workspace}
	} else {
		fs = &common.HostFs{}
	}
	return &WriteFileTool{fs: fs, workspace: workspace}
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Write content to a file. If content is a unified-diff patch envelope, it is applied against the existing file instead of overwriting it."
}

func (t *WriteFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Path to the file to write",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to write, or a unified-diff patch to apply",
			},
		},
		"required": []string{"file_path", "content"},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return common.ErrorResult("file_path is required")
	}

	content, ok := args["content"].(string)
	if !ok {
		return common.ErrorResult("content is required")
	}

	existing, readErr := t.fs.ReadFile(filePath)
	existed := readErr == nil

	if isPatchEnvelope(content) {
		patched, err := applyUnifiedPatch(string(existing), content)
		if err != nil {
			return common.ErrorResult("Failed to parse patch format: " + err.Error())
		}
		if err := t.fs.WriteFile(filePath, []byte(patched)); err != nil {
			return common.ErrorResult(err.Error())
		}
		return diffResult(filePath, string(existing), patched, existed)
	}

	if err := t.fs.WriteFile(filePath, []byte(content)); err != nil {
		return common.ErrorResult(err.Error())
	}

	return diffResult(filePath, string(existing), content, existed)
}

func diffResult(filePath, oldContent, newContent string, existed bool) *common.ToolResult {
	if !existed {
		return common.NewToolResult(`{"status":"success"}`)
	}
	if oldContent == newContent {
		return common.NewToolResult(`{"status":"success"}`)
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: filepath.Base(filePath),
		ToFile:   filepath.Base(filePath),
		Context:  3,
	})
	if err != nil {
		return common.NewToolResult(`{"status":"success"}`)
	}
	// The model sees a terse success status; the unified diff goes to the
	// interactive UI via ForUser so the human sees what actually changed.
	return &common.ToolResult{ForLLM: `{"status":"success"}`, ForUser: diff}
}

func isPatchEnvelope(content string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "*** Begin Patch") {
		return true
	}
	return strings.Contains(content, "\n@@ ") || strings.HasPrefix(content, "@@ ")
}

// applyUnifiedPatch applies a minimal unified-diff body (hunks of @@
// -start,len +start,len @@ followed by ' '/'-'/'+' lines) against the
// original content. It accepts a bare hunk sequence or one wrapped in
// "*** Begin Patch" / "*** End Patch" markers.
func applyUnifiedPatch(original, patch string) (string, error) {
	lines := strings.Split(patch, "\n")
	origLines := strings.Split(original, "\n")

	var out []string
	origIdx := 0
	sawHunk := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "*** Begin Patch" || line == "*** End Patch" {
			continue
		}
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		if strings.HasPrefix(line, "@@") {
			sawHunk = true
			startLine, err := parseHunkHeader(line)
			if err != nil {
				return "", err
			}
			// Copy untouched lines up to the hunk start.
			for origIdx < startLine-1 && origIdx < len(origLines) {
				out = append(out, origLines[origIdx])
				origIdx++
			}
			continue
		}
		if !sawHunk {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			out = append(out, line[1:])
		case strings.HasPrefix(line, "-"):
			origIdx++
		case strings.HasPrefix(line, " "):
			out = append(out, line[1:])
			origIdx++
		case line == "":
			// trailing blank line from the split; ignore
		default:
			return "", fmt.Errorf("unrecognized hunk line: %q", line)
		}
	}

	if !sawHunk {
		return "", fmt.Errorf("no hunks found")
	}

	for origIdx < len(origLines) {
		out = append(out, origLines[origIdx])
		origIdx++
	}

	return strings.Join(out, "\n"), nil
}

func parseHunkHeader(line string) (int, error) {
	// "@@ -12,5 +12,7 @@ optional context"
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return 0, fmt.Errorf("malformed hunk header: %q", line)
	}
	plusRange := parts[2]
	if !strings.HasPrefix(plusRange, "+") {
		return 0, fmt.Errorf("malformed hunk header: %q", line)
	}
	plusRange = strings.TrimPrefix(plusRange, "+")
	var start, length int
	if strings.Contains(plusRange, ",") {
		if _, err := fmt.Sscanf(plusRange, "%d,%d", &start, &length); err != nil {
			return 0, fmt.Errorf("malformed hunk range %q: %w", plusRange, err)
		}
	} else {
		if _, err := fmt.Sscanf(plusRange, "%d", &start); err != nil {
			return 0, fmt.Errorf("malformed hunk range %q: %w", plusRange, err)
		}
	}
	return start, nil
}
