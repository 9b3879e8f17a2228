// Package config implements the ambient configuration surface (§6.1):
// environment-variable driven, via caarlos0/env/v11 struct tags.
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a string slice that also accepts a single
// comma-joined string (e.g. additional working directories supplied as
// CLAUDE_C_ADDITIONAL_DIRS="/a,/b") or a JSON array.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*f = splitNonEmpty(single)
	return nil
}

func splitNonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Config is the complete recognized environment surface of §6.1.
type Config struct {
	// Provider credentials and endpoint selection.
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIAPIBase string `env:"OPENAI_API_BASE"`
	OpenAIModel   string `env:"OPENAI_MODEL"`
	AnthropicModel string `env:"ANTHROPIC_MODEL"`

	// CLAUDE_CODE_USE_BEDROCK selects the cloud-signed Bedrock provider mode;
	// when enabled, ANTHROPIC_MODEL plus the cloud profile's region and
	// credentials are required (resolved by the cloud SDK, not this struct).
	UseBedrock bool `env:"CLAUDE_CODE_USE_BEDROCK"`

	// DisablePromptCaching is read from DISABLE_PROMPT_CACHING. The request
	// builder (C6) emits no cache-control hints, so it has no effect.
	DisablePromptCaching bool `env:"DISABLE_PROMPT_CACHING"`

	// MaxRetryDurationMS is C5's wall-clock retry budget in milliseconds.
	MaxRetryDurationMS int64 `env:"CLAUDE_C_MAX_RETRY_DURATION_MS" envDefault:"120000"`

	// BashTimeoutSeconds is the Bash tool's default timeout.
	BashTimeoutSeconds int `env:"CLAUDE_C_BASH_TIMEOUT" envDefault:"30"`

	// GrepMaxResults is the Grep tool's truncation cap.
	GrepMaxResults int `env:"CLAUDE_C_GREP_MAX_RESULTS" envDefault:"100"`

	// Theme selects the TUI's colorscheme.
	Theme string `env:"CLAUDE_C_THEME" envDefault:"default"`

	// Logging.
	LogLevel string `env:"CLAUDE_LOG_LEVEL" envDefault:"info"`
	LogPath  string `env:"CLAUDE_C_LOG_PATH"`
	LogDir   string `env:"CLAUDE_C_LOG_DIR"`

	// DBPath is the audit sink's sqlite database path (§6.5).
	DBPath string `env:"CLAUDE_C_DB_PATH" envDefault:"~/.claude-c/audit.db"`

	// MCP delegate-tool configuration.
	MCPEnabled bool   `env:"CLAUDE_MCP_ENABLED"`
	MCPConfig  string `env:"CLAUDE_MCP_CONFIG"`

	// AdditionalDirs supplements ConversationState's additional-directories
	// list; the CLI makes each entry absolute and drops duplicates and the
	// working directory before handing the list to the conversation store.
	AdditionalDirs FlexibleStringSlice `env:"CLAUDE_C_ADDITIONAL_DIRS" envSeparator:","`
}

// Load reads Config from the environment, applying defaults for unset
// fields.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}
	return cfg, nil
}

// RetryBudgetMS returns MaxRetryDurationMS clamped to the spec's recommended
// upper bound of 600000ms.
func (c *Config) RetryBudgetMS() int64 {
	if c.MaxRetryDurationMS <= 0 {
		return 120000
	}
	if c.MaxRetryDurationMS > 600000 {
		return 600000
	}
	return c.MaxRetryDurationMS
}

// Model returns the configured model identifier, preferring ANTHROPIC_MODEL
// when set (matching the teacher's prefix-based provider selection, where
// an anthropic/-prefixed or bare Claude model name routes to the Anthropic
// provider).
func (c *Config) Model() string {
	if c.AnthropicModel != "" {
		return c.AnthropicModel
	}
	return c.OpenAIModel
}
