package providers

import (
	"fmt"
	"strings"

	"github.com/nmnduy/claude-c/pkg/config"
)

const defaultAnthropicAPIBase = "https://api.anthropic.com/v1"

// CreateProvider selects and constructs the C4 provider for the configured
// model (§4.4): the Anthropic native provider for Claude models, or a
// generic OpenAI-compatible HTTP provider otherwise. Bedrock-signed requests
// (CLAUDE_CODE_USE_BEDROCK) are not implemented by this adapter and fail
// fast with a clear error rather than silently degrading.
func CreateProvider(cfg *config.Config) (LLMProvider, error) {
	model := cfg.Model()
	if model == "" {
		return nil, fmt.Errorf("no model configured (set ANTHROPIC_MODEL or OPENAI_MODEL)")
	}

	if cfg.UseBedrock {
		return nil, fmt.Errorf("CLAUDE_CODE_USE_BEDROCK is set but Bedrock-signed requests are not implemented by this provider adapter")
	}

	if isAnthropicModel(model) {
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("no API key configured for model: %s (set OPENAI_API_KEY)", model)
		}
		apiBase := cfg.OpenAIAPIBase
		if apiBase == "" {
			apiBase = defaultAnthropicAPIBase
		}
		return NewAnthropicProvider(cfg.OpenAIAPIKey, apiBase), nil
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("no API key configured for model: %s (set OPENAI_API_KEY)", model)
	}
	apiBase := cfg.OpenAIAPIBase
	if apiBase == "" {
		return nil, fmt.Errorf("no API base configured for model: %s (set OPENAI_API_BASE)", model)
	}
	return NewHTTPProvider(cfg.OpenAIAPIKey, apiBase), nil
}

func isAnthropicModel(model string) bool {
	lower := strings.ToLower(model)
	return strings.Contains(lower, "claude") || strings.HasPrefix(lower, "anthropic/")
}
