package models

// ModelConfig configures the LLM model parameters
type ModelConfig struct {
	Provider     string `json:"provider"`      // "openai" (any compatible endpoint) or "anthropic"
	Model        string `json:"model"`         // e.g., "deepseek-chat"
	SummaryModel string `json:"summary_model"` // model used for history summaries
	MaxTokens    int    `json:"max_tokens"`    // Max tokens to generate; required by anthropic
}

// DefaultModelConfig returns a sensible default configuration
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:     "openai",
		Model:        "deepseek-chat",
		SummaryModel: "deepseek-chat",
		MaxTokens:    4096,
	}
}
