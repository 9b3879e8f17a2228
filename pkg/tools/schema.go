package tools

// ToolToSchema renders a Tool's declaration in the provider-independent
// function-calling shape: {"type":"function","function":{name,description,parameters}}.
func ToolToSchema(tool Tool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        tool.Name(),
			"description": tool.Description(),
			"parameters":  tool.Parameters(),
		},
	}
}
