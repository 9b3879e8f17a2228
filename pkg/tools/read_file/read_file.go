// Package read_file implements the Read tool (§4.2 / C2): reads a file's
// content, optionally restricted to a line range, resolved relative to the
// configured working directory.
package read_file

import (
	"context"
	"fmt"
	"strings"

	"github.com/nmnduy/claude-c/pkg/tools/common"
)

type ReadFileTool struct {
	fs common.FileSystem
}

func NewReadFileTool(workspace string, restrict bool) *ReadFileTool {
	var fs common.FileSystem
	if restrict {
		fs = &common.SandboxFs{Workspace: workspace}
	} else {
		fs = &common.HostFs{}
	}
	return &ReadFileTool{fs: fs}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read the contents of a file, optionally restricted to a line range"
}

func (t *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Path to the file, resolved against the working directory",
			},
			"start_line": map[string]any{
				"type":        "integer",
				"description": "First line to return (1-indexed, inclusive)",
			},
			"end_line": map[string]any{
				"type":        "integer",
				"description": "Last line to return (1-indexed, inclusive)",
			},
		},
		"required": []string{"file_path"},
	}
}

func intArg(args map[string]any, key string) (int, bool, error) {
	raw, present := args[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return common.ErrorResult("file_path is required")
	}

	startLine, hasStart, err := intArg(args, "start_line")
	if err != nil {
		return common.ErrorResult(err.Error())
	}
	endLine, hasEnd, err := intArg(args, "end_line")
	if err != nil {
		return common.ErrorResult(err.Error())
	}
	if hasStart && startLine < 1 {
		return common.ErrorResult("start_line must be >= 1")
	}
	if hasEnd && endLine < 1 {
		return common.ErrorResult("end_line must be >= 1")
	}
	if hasStart && hasEnd && startLine > endLine {
		return common.ErrorResult("start_line must be <= end_line")
	}

	content, err := t.fs.ReadFile(filePath)
	if err != nil {
		// A non-canonicalizable path is reported back as the concatenated
		// path rather than a stack trace, matching the spec's fallback.
		return common.ErrorResult(fmt.Sprintf("%s: %s", filePath, err.Error()))
	}

	lines := strings.Split(string(content), "\n")
	totalLines := len(lines)
	// A trailing-newline file yields one spurious trailing empty element
	// from strings.Split; drop it so total_lines matches line-counting tools.
	if totalLines > 0 && lines[totalLines-1] == "" {
		totalLines--
	}

	if !hasStart && !hasEnd {
		return common.NewToolResult(contentWithMeta(string(content), totalLines, nil, nil))
	}

	start := 1
	if hasStart {
		start = startLine
	}
	end := totalLines
	if hasEnd {
		end = endLine
	}
	if start > totalLines {
		return common.NewToolResult(contentWithMeta("", totalLines, &start, &end))
	}
	if end > totalLines {
		end = totalLines
	}

	selected := strings.Join(lines[start-1:end], "\n")
	return common.NewToolResult(contentWithMeta(selected, totalLines, &start, &end))
}

func contentWithMeta(content string, totalLines int, startLine, endLine *int) string {
	var b strings.Builder
	b.WriteString(content)
	b.WriteString(fmt.Sprintf("\n\n[total_lines=%d", totalLines))
	if startLine != nil {
		b.WriteString(fmt.Sprintf(" start_line=%d", *startLine))
	}
	if endLine != nil {
		b.WriteString(fmt.Sprintf(" end_line=%d", *endLine))
	}
	b.WriteString("]")
	return b.String()
}
