// Package edit_file implements the Edit tool (§4.2 / C2): three mutually
// exclusive edit modes against a single file — insert relative to an
// anchor, regex replace, or literal string replace — each emitting a
// unified diff to the UI and a {status, replacements} result to the model.
package edit_file

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nmnduy/claude-c/pkg/tools/common"
	"github.com/pmezard/go-difflib/difflib"
)

type EditFileTool struct {
	fs common.FileSystem
}

func NewEditFileTool(workspace string, restrict bool) *EditFileTool {
	var fs common.FileSystem
	if restrict {
		fs = &common.SandboxFs{Workspace: workspace}
	} else {
		fs = &common.HostFs{}
	}
	return &EditFileTool{fs: fs}
}

func (t *EditFileTool) Name() string { return "edit_file" }

func (t *EditFileTool) Description() string {
	return "Edit a file in place: insert text relative to an anchor, replace by regex, or replace a literal string"
}

func (t *EditFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path":       map[string]any{"type": "string", "description": "The file path to edit"},
			"old_string":      map[string]any{"type": "string", "description": "Text (or pattern, if use_regex) to find and replace"},
			"new_string":      map[string]any{"type": "string", "description": "Replacement text, or text to insert"},
			"replace_all":     map[string]any{"type": "boolean", "description": "Replace every match instead of requiring exactly one"},
			"use_regex":       map[string]any{"type": "boolean", "description": "Treat old_string as a regular expression"},
			"insert_mode":     map[string]any{"type": "boolean", "description": "Insert new_string relative to anchor instead of replacing"},
			"anchor":          map[string]any{"type": "string", "description": "Text or pattern marking the insertion point"},
			"anchor_is_regex": map[string]any{"type": "boolean", "description": "Treat anchor as a regular expression"},
			"insert_position": map[string]any{"type": "string", "description": "\"before\" or \"after\" the anchor (default after)"},
			"occurrence":      map[string]any{"type": "integer", "description": "Which anchor occurrence to use, 1-indexed (default 1)"},
			"fallback_to_eof": map[string]any{"type": "boolean", "description": "If the anchor is not found, insert at end of file instead of erroring"},
		},
		"required": []string{"file_path", "new_string"},
	}
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func intArgDefault(args map[string]any, key string, def int) int {
	raw, ok := args[key]
	if !ok {
		return def
	}
	if f, ok := raw.(float64); ok {
		return int(f)
	}
	if i, ok := raw.(int); ok {
		return i
	}
	return def
}

func (t *EditFileTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return common.ErrorResult("file_path is required")
	}
	newString, ok := args["new_string"].(string)
	if !ok {
		return common.ErrorResult("new_string is required")
	}

	original, err := t.fs.ReadFile(filePath)
	if err != nil {
		return common.ErrorResult(err.Error())
	}
	content := string(original)

	var result string
	var replacements int

	if boolArg(args, "insert_mode") {
		anchor, _ := args["anchor"].(string)
		position := "after"
		if p, ok := args["insert_position"].(string); ok && p != "" {
			position = p
		}
		occurrence := intArgDefault(args, "occurrence", 1)
		fallbackToEOF := boolArg(args, "fallback_to_eof")
		anchorIsRegex := boolArg(args, "anchor_is_regex")

		result, err = insertRelativeToAnchor(content, anchor, newString, position, occurrence, anchorIsRegex, fallbackToEOF)
		if err != nil {
			return common.ErrorResult(err.Error())
		}
		replacements = 1
	} else {
		oldString, _ := args["old_string"].(string)
		if oldString == "" {
			return common.ErrorResult("old_string is required unless insert_mode is set")
		}
		replaceAll := boolArg(args, "replace_all")
		useRegex := boolArg(args, "use_regex")

		result, replacements, err = replaceInContent(content, oldString, newString, replaceAll, useRegex)
		if err != nil {
			return common.ErrorResult(err.Error())
		}
	}

	if err := t.fs.WriteFile(filePath, []byte(result)); err != nil {
		return common.ErrorResult(err.Error())
	}

	diff, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(content),
		B:        difflib.SplitLines(result),
		FromFile: filepath.Base(filePath),
		ToFile:   filepath.Base(filePath),
		Context:  3,
	})

	status := fmt.Sprintf(`{"status":"success","replacements":%d}`, replacements)
	if diffErr != nil || diff == "" {
		return common.NewToolResult(status)
	}
	return &common.ToolResult{ForLLM: status, ForUser: diff}
}

func replaceInContent(content, oldString, newString string, replaceAll, useRegex bool) (string, int, error) {
	if useRegex {
		re, err := regexp.Compile(oldString)
		if err != nil {
			return "", 0, fmt.Errorf("invalid regex pattern: %w", err)
		}
		matches := re.FindAllStringIndex(content, -1)
		if len(matches) == 0 {
			return "", 0, fmt.Errorf("pattern %q matched nothing", oldString)
		}
		if !replaceAll && len(matches) > 1 {
			return "", 0, fmt.Errorf("pattern %q matched %d times; pass replace_all or narrow the pattern", oldString, len(matches))
		}
		if replaceAll {
			return re.ReplaceAllString(content, newString), len(matches), nil
		}
		result := content[:matches[0][0]] + re.ReplaceAllString(content[matches[0][0]:matches[0][1]], newString) + content[matches[0][1]:]
		return result, 1, nil
	}

	count := strings.Count(content, oldString)
	if count == 0 {
		return "", 0, fmt.Errorf("old_string not found in file")
	}
	if !replaceAll && count > 1 {
		return "", 0, fmt.Errorf("old_string appears %d times; pass replace_all or provide more context to make it unique", count)
	}
	if replaceAll {
		return strings.ReplaceAll(content, oldString, newString), count, nil
	}
	return strings.Replace(content, oldString, newString, 1), 1, nil
}

func insertRelativeToAnchor(content, anchor, insertText, position string, occurrence int, anchorIsRegex, fallbackToEOF bool) (string, error) {
	if occurrence < 1 {
		occurrence = 1
	}

	var idx, length int
	found := false

	if anchorIsRegex {
		re, err := regexp.Compile(anchor)
		if err != nil {
			return "", fmt.Errorf("invalid anchor regex: %w", err)
		}
		matches := re.FindAllStringIndex(content, -1)
		if occurrence <= len(matches) {
			idx, length = matches[occurrence-1][0], matches[occurrence-1][1]-matches[occurrence-1][0]
			found = true
		}
	} else if anchor != "" {
		search := content
		pos := -1
		count := 0
		for {
			rel := strings.Index(search, anchor)
			if rel == -1 {
				break
			}
			count++
			abs := len(content) - len(search) + rel
			if count == occurrence {
				pos = abs
				break
			}
			search = search[rel+len(anchor):]
		}
		if pos != -1 {
			idx, length = pos, len(anchor)
			found = true
		}
	}

	if !found {
		if anchor == "" || fallbackToEOF {
			if !strings.HasSuffix(content, "\n") && content != "" {
				return content + "\n" + insertText, nil
			}
			return content + insertText, nil
		}
		return "", fmt.Errorf("anchor %q not found", anchor)
	}

	insertAt := idx
	if position == "after" {
		insertAt = idx + length
	}
	return content[:insertAt] + insertText + content[insertAt:], nil
}
