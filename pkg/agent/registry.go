package agent

import (
	"github.com/nmnduy/claude-c/pkg/config"
	"github.com/nmnduy/claude-c/pkg/mcp"
	"github.com/nmnduy/claude-c/pkg/session"
	"github.com/nmnduy/claude-c/pkg/tools"
	"github.com/nmnduy/claude-c/pkg/tools/bash"
	"github.com/nmnduy/claude-c/pkg/tools/edit_file"
	"github.com/nmnduy/claude-c/pkg/tools/glob"
	"github.com/nmnduy/claude-c/pkg/tools/grep"
	"github.com/nmnduy/claude-c/pkg/tools/read_file"
	"github.com/nmnduy/claude-c/pkg/tools/sleep"
	"github.com/nmnduy/claude-c/pkg/tools/todowrite"
	"github.com/nmnduy/claude-c/pkg/tools/write_file"
)

// BuildRegistry assembles the C2 Tool Registry for one conversation,
// bootstrapping any configured MCP servers first (§4.2 tools plus
// delegate MCP tools). The returned cleanup function stops the MCP
// manager, if one was started, and must be called once the conversation
// ends.
func BuildRegistry(cfg *config.Config, store *session.Store) (*tools.ToolRegistry, func(), error) {
	mcpResult, err := bootstrapMCP(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	reg := buildRegistry(cfg, store, mcpResult)
	cleanup := func() { stopMCP(mcpResult) }
	return reg, cleanup, nil
}

// buildRegistry assembles the C2 Tool Registry for one conversation: the
// eight tools §4.2 names, sandboxed to the store's working directory, plus
// one MCPTool delegate per tool discovered from an enabled MCP server.
func buildRegistry(cfg *config.Config, store *session.Store, mcpResult *mcpBootstrapResult) *tools.ToolRegistry {
	reg := tools.NewToolRegistry()

	reg.Register(read_file.NewReadFileTool(store.WorkingDir, true))
	reg.Register(write_file.NewWriteFileTool(store.WorkingDir, true))
	reg.Register(edit_file.NewEditFileTool(store.WorkingDir, true))
	reg.Register(bash.NewBashTool(store.WorkingDir, cfg.BashTimeoutSeconds))
	reg.Register(grep.NewGrepTool(store.WorkingDir, cfg.GrepMaxResults))
	reg.Register(glob.NewGlobTool(store.WorkingDir, store.AdditionalDirs...))
	reg.Register(todowrite.NewTodoWriteTool(store.Todo))
	reg.Register(sleep.NewSleepTool())

	if mcpResult != nil {
		for serverName, serverTools := range mcpResult.Tools {
			for _, t := range serverTools {
				reg.Register(tools.NewMCPTool(mcpResult.Manager, serverName, t))
			}
		}
	}

	return reg
}

// stopMCP shuts down the MCP manager bootstrapped for a conversation, if
// any. Safe to call with a nil result.
func stopMCP(mcpResult *mcpBootstrapResult) {
	if mcpResult == nil {
		return
	}
	var m *mcp.Manager = mcpResult.Manager
	m.Stop()
}
