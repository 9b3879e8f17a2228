// Package grep implements the Grep tool (§4.2 / C2): a recursive regex
// search over the working directory, skipping VCS/dependency/binary
// directories and truncating past a configurable result cap.
package grep

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nmnduy/claude-c/pkg/tools/common"
)

var denylistDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".idea":        true,
	".vscode":      true,
}

var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".exe": true,
	".dll": true, ".so": true, ".dylib": true, ".bin": true, ".woff": true,
	".woff2": true, ".ttf": true, ".eot": true,
}

const defaultMaxResults = 100

type GrepTool struct {
	workingDir string
	maxResults int
	// Interrupt, when non-nil, is polled between files so a long search can
	// be cancelled cooperatively.
	Interrupt func() bool
}

// NewGrepTool builds a GrepTool. maxResults <= 0 falls back to 100.
func NewGrepTool(workingDir string, maxResults int) *GrepTool {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &GrepTool{workingDir: workingDir, maxResults: maxResults}
}

func (t *GrepTool) Name() string { return "grep" }

func (t *GrepTool) Description() string {
	return "Recursively search files under a directory for a regular expression pattern"
}

func (t *GrepTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern": map[string]any{"type": "string", "description": "Regular expression to search for"},
			"path":    map[string]any{"type": "string", "description": "Directory to search (default: working directory)"},
		},
		"required": []string{"pattern"},
	}
}

type match struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

type grepResult struct {
	Matches    []match `json:"matches"`
	MatchCount int     `json:"match_count"`
	Warning    string  `json:"warning,omitempty"`
}

func (t *GrepTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	pattern, ok := args["pattern"].(string)
	if !ok || pattern == "" {
		return common.ErrorResult("pattern is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return common.ErrorResult(fmt.Sprintf("invalid pattern: %v", err))
	}

	root := t.workingDir
	if p, ok := args["path"].(string); ok && p != "" {
		if filepath.IsAbs(p) {
			root = p
		} else {
			root = filepath.Join(t.workingDir, p)
		}
	}
	if root == "" {
		root = "."
	}

	var matches []match
	truncated := false

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if t.interrupted() {
			return filepath.SkipAll
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if denylistDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if binaryExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if len(matches) >= t.maxResults {
			truncated = true
			return filepath.SkipAll
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if isBinaryContent(data) {
			return nil
		}

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			if re.MatchString(line) {
				rel, relErr := filepath.Rel(t.workingDir, path)
				if relErr != nil {
					rel = path
				}
				matches = append(matches, match{File: rel, Line: i + 1, Text: line})
				if len(matches) >= t.maxResults {
					truncated = true
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil && walkErr != filepath.SkipAll {
		return common.ErrorResult(walkErr.Error())
	}

	result := grepResult{Matches: matches, MatchCount: len(matches)}
	if truncated {
		result.Warning = fmt.Sprintf("results truncated to %d matches", t.maxResults)
	}
	data, _ := json.Marshal(result)
	return common.NewToolResult(string(data))
}

func (t *GrepTool) interrupted() bool {
	return t.Interrupt != nil && t.Interrupt()
}

// isBinaryContent uses the presence of a NUL byte in the first 8KB as a
// cheap binary-file heuristic.
func isBinaryContent(data []byte) bool {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
