package llm

import (
	"fmt"

	"github.com/mfateev/codeagent/internal/config"
)

// NewChatClient creates the provider client named by cfg.Provider.
func NewChatClient(cfg config.LLMConfig) (ChatClient, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL), nil
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic)", cfg.Provider)
	}
}
