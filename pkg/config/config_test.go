package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CLAUDE_C_MAX_RETRY_DURATION_MS", "")
	t.Setenv("CLAUDE_C_BASH_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxRetryDurationMS != 120000 {
		t.Errorf("expected default retry budget 120000, got %d", cfg.MaxRetryDurationMS)
	}
	if cfg.BashTimeoutSeconds != 30 {
		t.Errorf("expected default bash timeout 30, got %d", cfg.BashTimeoutSeconds)
	}
	if cfg.GrepMaxResults != 100 {
		t.Errorf("expected default grep cap 100, got %d", cfg.GrepMaxResults)
	}
}

func TestLoad_ReadsRecognizedEnvVars(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_MODEL", "claude-sonnet-4-6")
	t.Setenv("CLAUDE_C_MAX_RETRY_DURATION_MS", "300000")
	t.Setenv("CLAUDE_MCP_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("expected OPENAI_API_KEY to be read, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.Model() != "claude-sonnet-4-6" {
		t.Errorf("expected ANTHROPIC_MODEL to win, got %q", cfg.Model())
	}
	if cfg.MaxRetryDurationMS != 300000 {
		t.Errorf("expected retry budget 300000, got %d", cfg.MaxRetryDurationMS)
	}
	if !cfg.MCPEnabled {
		t.Error("expected CLAUDE_MCP_ENABLED to parse true")
	}
}

func TestRetryBudgetMS_ClampsToMax(t *testing.T) {
	cfg := &Config{MaxRetryDurationMS: 999999999}
	if got := cfg.RetryBudgetMS(); got != 600000 {
		t.Errorf("expected clamp to 600000, got %d", got)
	}
}

func TestFlexibleStringSlice_AcceptsCommaJoinedString(t *testing.T) {
	var f FlexibleStringSlice
	if err := f.UnmarshalJSON([]byte(`"/a, /b ,/c"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"/a", "/b", "/c"}
	if len(f) != len(want) {
		t.Fatalf("expected %v, got %v", want, f)
	}
	for i := range want {
		if f[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, f)
		}
	}
}
