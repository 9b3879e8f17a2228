package providers

import "encoding/json"

// NormalizeToolCall ensures a ToolCall's Name/Arguments and Function fields
// agree, regardless of which shape the provider's wire format populated:
// some APIs return name/arguments at the top level, others nest them under
// "function" with a JSON-encoded arguments string.
func NormalizeToolCall(tc ToolCall) ToolCall {
	normalized := tc

	if normalized.Name == "" && normalized.Function != nil {
		normalized.Name = normalized.Function.Name
	}

	if normalized.Arguments == nil {
		normalized.Arguments = map[string]any{}
	}

	if len(normalized.Arguments) == 0 && normalized.Function != nil && normalized.Function.Arguments != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(normalized.Function.Arguments), &parsed); err == nil && parsed != nil {
			normalized.Arguments = parsed
		}
	}

	argsJSON, _ := json.Marshal(normalized.Arguments)
	if normalized.Function == nil {
		normalized.Function = &FunctionCall{
			Name:      normalized.Name,
			Arguments: string(argsJSON),
		}
	} else {
		if normalized.Function.Name == "" {
			normalized.Function.Name = normalized.Name
		}
		if normalized.Name == "" {
			normalized.Name = normalized.Function.Name
		}
		if normalized.Function.Arguments == "" {
			normalized.Function.Arguments = string(argsJSON)
		}
	}

	return normalized
}
