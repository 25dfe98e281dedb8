package models

import "strings"

// DetectProvider infers the provider from a model name: "anthropic" for
// Claude models, "openai" (any compatible endpoint) for everything else.
func DetectProvider(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	if strings.HasPrefix(m, "claude-") {
		return "anthropic"
	}
	return "openai"
}
