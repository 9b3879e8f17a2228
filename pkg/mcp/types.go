package mcp

// ServerSummary is a lightweight view of a server for listing.
// This is a Manager-specific type (not part of the MCP SDK).
type ServerSummary struct {
	Name        string
	Description string
	Status      string
}

// ServerConfig describes one delegate MCP server read from CLAUDE_MCP_CONFIG
// (§6.1). A server is either a stdio subprocess (Command/Args/Env) or a
// remote HTTP (Streamable HTTP) endpoint (URL/Headers); exactly one of the
// two transports applies, selected by whether URL is set.
type ServerConfig struct {
	Description string            `json:"description,omitempty"`
	Enabled     bool              `json:"enabled"`
	Command     string            `json:"command,omitempty"`
	Args        []string          `json:"args,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	URL         string            `json:"url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	IdleTimeout int               `json:"idle_timeout_seconds,omitempty"`
}
