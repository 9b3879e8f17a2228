package agent

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// mcpToolPrefix namespaces delegate tools discovered from MCP servers
// (§4.7): "mcp_<server>_<tool>", matching (*tools.MCPTool).Name().
const mcpToolPrefix = "mcp_"

func isMCPToolName(name string) bool {
	return strings.HasPrefix(name, mcpToolPrefix)
}

// statusLabel generates a short human-readable progress label for a tool
// call, rendered by C8 while the tool is running.
func statusLabel(toolName string, args map[string]interface{}) string {
	switch toolName {
	case "read_file":
		return fileStatusLabel("Reading", args)
	case "write_file":
		return fileStatusLabel("Writing", args)
	case "edit_file":
		return fileStatusLabel("Editing", args)
	case "bash":
		if c := strArg(args, "command"); c != "" {
			return fmt.Sprintf("Running: %s", truncLabel(c, 40))
		}
		return "Running command..."
	case "grep":
		if p := strArg(args, "pattern"); p != "" {
			return fmt.Sprintf("Searching for %q...", truncLabel(p, 30))
		}
		return "Searching..."
	case "glob":
		if p := strArg(args, "pattern"); p != "" {
			return fmt.Sprintf("Expanding %q...", truncLabel(p, 30))
		}
		return "Expanding glob..."
	case "todo_write":
		return "Updating todo list..."
	case "sleep":
		return "Sleeping..."
	default:
		if isMCPToolName(toolName) {
			return fmt.Sprintf("Calling MCP tool %s...", truncLabel(toolName, 30))
		}
		return "Working..."
	}
}

func fileStatusLabel(verb string, args map[string]interface{}) string {
	if p := strArg(args, "file_path"); p != "" {
		return fmt.Sprintf("%s %s...", verb, filepath.Base(p))
	}
	return verb + "..."
}

// strArg extracts a string argument from a tool arguments map.
func strArg(args map[string]interface{}, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// truncLabel truncates a string to maxRunes runes, appending "..." if truncated.
func truncLabel(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
