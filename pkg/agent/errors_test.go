package agent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nmnduy/claude-c/pkg/utils"
)

func TestUserFriendlyError_NilError(t *testing.T) {
	if got := userFriendlyError(nil); got != "" {
		t.Errorf("expected empty string for nil error, got %q", got)
	}
}

func TestUserFriendlyError_Timeout(t *testing.T) {
	err := errors.New("failed to send request: context deadline exceeded (Client.Timeout exceeded while awaiting headers)")
	got := userFriendlyError(err)
	if got == genericErrorMessage {
		t.Errorf("expected timeout-specific message, got generic")
	}
	if !contains(got, "timed out") {
		t.Errorf("expected 'timed out' in message, got %q", got)
	}
}

func TestUserFriendlyError_RateLimit(t *testing.T) {
	err := errors.New("API request failed:\n  Status: 429\n  Body:   rate limited")
	got := userFriendlyError(err)
	if !contains(got, "rate-limiting") {
		t.Errorf("expected rate-limit guidance, got %q", got)
	}
}

func TestUserFriendlyError_ServerError(t *testing.T) {
	err := errors.New("API request failed:\n  Status: 503\n  Body:   Service Unavailable")
	got := userFriendlyError(err)
	if !contains(got, "unavailable") {
		t.Errorf("expected server-error guidance, got %q", got)
	}
}

func TestUserFriendlyError_Auth(t *testing.T) {
	err := errors.New("API request failed:\n  Status: 401\n  Body:   Unauthorized")
	got := userFriendlyError(err)
	if !contains(got, "authenticate") {
		t.Errorf("expected auth guidance, got %q", got)
	}
}

func TestUserFriendlyError_Unknown(t *testing.T) {
	err := errors.New("some completely unclassified internal error")
	got := userFriendlyError(err)
	if got != genericErrorMessage {
		t.Errorf("expected generic message for unclassified error, got %q", got)
	}
	if contains(got, err.Error()) {
		t.Errorf("generic message should not leak raw error text, got %q", got)
	}
}

func TestUserFriendlyError_WrappedErrors(t *testing.T) {
	inner := errors.New("API request failed:\n  Status: 429\n  Body:   rate limited")
	wrapped := fmt.Errorf("LLM call failed after retries: %w", inner)
	got := userFriendlyError(wrapped)
	if got == genericErrorMessage {
		t.Errorf("expected rate-limit message for wrapped error, got generic")
	}
}

func TestReasonToUserMessage_AllReasons(t *testing.T) {
	decisions := []utils.RetryDecision{
		{Reason: utils.RetryReasonTimeout},
		{Reason: utils.RetryReasonServerError, Status: 429},
		{Reason: utils.RetryReasonServerError, Status: 503},
		{Status: 401},
		{},
	}
	for _, d := range decisions {
		if msg := reasonToUserMessage(d); msg == "" {
			t.Errorf("expected non-empty message for decision %+v", d)
		}
	}
}

// contains is a substring helper for test assertions.
func contains(s, substr string) bool {
	return len(substr) == 0 || indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	if len(substr) > len(s) {
		return -1
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
