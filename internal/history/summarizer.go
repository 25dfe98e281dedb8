package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfateev/codeagent/internal/llm"
	"github.com/mfateev/codeagent/internal/models"
)

// SummaryRole is the system prompt used for summary requests. It is kept
// distinct from the agent role.
const SummaryRole = "You are a Code AI expert"

// SummaryInstruction prefixes the flattened transcript.
const SummaryInstruction = "Summarize this conversation in a concise manner"

// LLMSummarizer summarizes via a chat completion call.
type LLMSummarizer struct {
	client    llm.ChatClient
	model     string
	maxTokens int
}

// NewLLMSummarizer creates a summarizer that uses model on client.
func NewLLMSummarizer(client llm.ChatClient, model string, maxTokens int) *LLMSummarizer {
	return &LLMSummarizer{client: client, model: model, maxTokens: maxTokens}
}

// Summarize issues one completion request and returns its full text.
func (s *LLMSummarizer) Summarize(ctx context.Context, msgs []models.Message) (string, error) {
	text, err := llm.Complete(ctx, s.client, s.Request(msgs))
	if err != nil {
		return "", models.NewSummarizationError(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewSummarizationError(fmt.Errorf("empty summary"))
	}
	return text, nil
}

// Request builds the summary completion request for msgs.
func (s *LLMSummarizer) Request(msgs []models.Message) llm.CompletionRequest {
	return llm.CompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []models.Message{
			models.SystemMessage(SummaryRole),
			models.UserMessage(BuildSummaryPrompt(msgs)),
		},
	}
}

// BuildSummaryPrompt flattens msgs into "role: content" lines after the
// fixed instruction.
func BuildSummaryPrompt(msgs []models.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return SummaryInstruction + ":\n\n" + strings.Join(lines, "\n")
}
