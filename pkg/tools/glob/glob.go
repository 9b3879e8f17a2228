// Package glob implements the Glob tool (§4.2 / C2): expands a glob
// pattern against the working directory and any configured additional
// search directories, returning the matched file list.
package glob

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nmnduy/claude-c/pkg/tools/common"
)

func dirFS(dir string) fs.FS { return os.DirFS(dir) }

type GlobTool struct {
	workingDir     string
	additionalDirs []string
}

// NewGlobTool builds a GlobTool. additionalDirs are searched in addition to
// workingDir, e.g. configured project roots outside the sandbox.
func NewGlobTool(workingDir string, additionalDirs ...string) *GlobTool {
	return &GlobTool{workingDir: workingDir, additionalDirs: additionalDirs}
}

func (t *GlobTool) Name() string { return "glob" }

func (t *GlobTool) Description() string {
	return "Expand a glob pattern into matching file paths"
}

func (t *GlobTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern": map[string]any{"type": "string", "description": "Glob pattern, e.g. \"**/*.go\" or \"src/*.ts\""},
		},
		"required": []string{"pattern"},
	}
}

type globResult struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

func (t *GlobTool) Execute(ctx context.Context, args map[string]any) *common.ToolResult {
	pattern, ok := args["pattern"].(string)
	if !ok || pattern == "" {
		return common.ErrorResult("pattern is required")
	}

	dirs := append([]string{t.workingDir}, t.additionalDirs...)
	seen := map[string]bool{}
	var files []string

	for _, dir := range dirs {
		if dir == "" {
			dir = "."
		}
		matches, err := doublestarGlob(dir, pattern)
		if err != nil {
			return common.ErrorResult(err.Error())
		}
		for _, m := range matches {
			rel, relErr := filepath.Rel(dir, m)
			if relErr != nil {
				rel = m
			}
			if !seen[rel] {
				seen[rel] = true
				files = append(files, rel)
			}
		}
	}

	sort.Strings(files)
	result := globResult{Files: files, Count: len(files)}
	data, _ := json.Marshal(result)
	return common.NewToolResult(string(data))
}

func doublestarGlob(dir, pattern string) ([]string, error) {
	fsys := dirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, m)
	}
	return out, nil
}
