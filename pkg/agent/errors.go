package agent

import (
	"github.com/nmnduy/claude-c/pkg/utils"
)

// userFriendlyError converts a raw Go error into a message safe to render in
// the UI pipeline. Internal details (HTTP status codes, wrapped error
// chains, Go formatting) are replaced with actionable, plain-language
// guidance. The original error is still logged server-side by the caller.
func userFriendlyError(err error) string {
	if err == nil {
		return ""
	}

	decision := utils.IsRetryableError(err)
	return reasonToUserMessage(decision)
}

// reasonToUserMessage maps a retry decision to a user-facing message.
func reasonToUserMessage(decision utils.RetryDecision) string {
	switch decision.Reason {
	case utils.RetryReasonTimeout:
		return "The request to the AI provider timed out. " +
			"Please check your internet connection and try again."
	case utils.RetryReasonServerError:
		if decision.Status == 429 {
			return "The AI provider is rate-limiting requests. Please try again in a moment."
		}
		if decision.Status >= 500 {
			return "The AI provider is currently unavailable. Please try again in a moment."
		}
		return "The AI provider rejected the request. Please try again."
	default:
		if decision.Status == 401 || decision.Status == 403 {
			return "I couldn't authenticate with the AI provider. Please check the configured API key."
		}
		return genericErrorMessage
	}
}

const genericErrorMessage = "Something went wrong processing the request."
