package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nmnduy/claude-c/pkg/config"
	"github.com/nmnduy/claude-c/pkg/logger"
	"github.com/nmnduy/claude-c/pkg/mcp"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const mcpBootstrapTimeout = 30 * time.Second

// mcpBootstrapResult is what a successful bootstrapMCP call hands the AI
// worker: a live manager plus the tool schemas discovered from every
// enabled server, ready to be merged into the tool registry.
type mcpBootstrapResult struct {
	Manager *mcp.Manager
	Tools   map[string][]*sdkmcp.Tool // keyed by server name
}

// bootstrapMCP reads CLAUDE_MCP_CONFIG (a JSON file mapping server name to
// mcp.ServerConfig) when CLAUDE_MCP_ENABLED is set, starts each enabled
// server, and discovers its tool schemas. A server that fails to start is
// logged and skipped rather than aborting the whole bootstrap — MCP
// delegate tools are an optional enrichment, not a startup dependency.
func bootstrapMCP(cfg *config.Config) (*mcpBootstrapResult, error) {
	if !cfg.MCPEnabled {
		return nil, nil
	}

	servers, err := loadMCPServerConfigs(cfg.MCPConfig)
	if err != nil {
		return nil, fmt.Errorf("loading mcp config: %w", err)
	}
	if len(servers) == 0 {
		return nil, nil
	}

	manager := mcp.NewManager(servers)
	tools := make(map[string][]*sdkmcp.Tool)

	for name, sc := range servers {
		if !sc.Enabled {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), mcpBootstrapTimeout)
		serverTools, err := manager.GetTools(ctx, name)
		cancel()
		if err != nil {
			logger.WarnCF("mcp", "skipping MCP server that failed to start",
				map[string]any{"server": name, "error": err.Error()})
			continue
		}
		tools[name] = serverTools
	}

	return &mcpBootstrapResult{Manager: manager, Tools: tools}, nil
}

func loadMCPServerConfigs(path string) (map[string]mcp.ServerConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var servers map[string]mcp.ServerConfig
	if err := json.Unmarshal(data, &servers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return servers, nil
}
