package llm

import (
	"context"
	"errors"
	"iter"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mfateev/codeagent/internal/models"
)

// OpenAIClient implements ChatClient using the Chat Completions API. Any
// OpenAI-compatible endpoint (DeepSeek, local gateways) works via the base URL.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates an OpenAI client for the given credentials.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// StreamCompletion streams the assistant reply for request.
func (c *OpenAIClient) StreamCompletion(ctx context.Context, request CompletionRequest) iter.Seq2[string, error] {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(request.Model),
		Messages: buildMessages(request.Messages),
	}
	if request.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(request.MaxTokens))
	}

	return func(yield func(string, error) bool) {
		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			if !yield(delta, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", classifyOpenAIError(err))
		}
	}
}

// buildMessages converts the transcript to Chat Completions message params.
//
// Role mapping:
//   - system → SystemMessage (agent role and stored summaries)
//   - user → UserMessage
//   - assistant → AssistantMessage
func buildMessages(history []models.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case models.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case models.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}
	return messages
}

// classifyOpenAIError uses the HTTP status code when the SDK exposes one.
func classifyOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.NewTransportError("openai stream interrupted", err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyByStatusCode("openai", apiErr.StatusCode, err)
	}
	return models.NewTransportError("openai request failed", err)
}
