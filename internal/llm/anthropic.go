package llm

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mfateev/codeagent/internal/models"
)

// defaultAnthropicMaxTokens is used when the request leaves MaxTokens unset;
// the Messages API requires a value.
const defaultAnthropicMaxTokens = 4096

// AnthropicClient implements ChatClient using Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates an Anthropic client.
func NewAnthropicClient(apiKey, baseURL string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

// StreamCompletion streams the assistant reply for request.
func (c *AnthropicClient) StreamCompletion(ctx context.Context, request CompletionRequest) iter.Seq2[string, error] {
	system, messages := buildAnthropicMessages(request.Messages)
	maxTokens := int64(request.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}

	return func(yield func(string, error) bool) {
		stream := c.client.Messages.NewStreaming(ctx, params)
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch d := ev.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if d.Text == "" {
						continue
					}
					if !yield(d.Text, nil) {
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", classifyAnthropicError(err))
		}
	}
}

// buildAnthropicMessages converts the transcript to the Messages API shape.
//
// Key differences from OpenAI:
//  1. System prompts are a separate parameter, so system-role entries
//     (agent role, stored summaries) become system text blocks in order.
//  2. Consecutive turns of the same role are merged; the API expects
//     alternating user/assistant messages.
//  3. A trailing assistant turn (the code exemplar) would be treated as a
//     prefill and continued, so it is sent as a system block instead.
func buildAnthropicMessages(history []models.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	var pendingRole models.Role
	var pending []string
	flush := func() {
		if len(pending) == 0 {
			return
		}
		block := anthropic.NewTextBlock(strings.Join(pending, "\n\n"))
		if pendingRole == models.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
		pending = nil
	}

	for _, m := range history {
		switch m.Role {
		case models.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case models.RoleUser, models.RoleAssistant:
			if m.Role != pendingRole {
				flush()
				pendingRole = m.Role
			}
			pending = append(pending, m.Content)
		}
	}
	if pendingRole == models.RoleAssistant {
		for _, text := range pending {
			system = append(system, anthropic.TextBlockParam{Text: text})
		}
		pending = nil
	}
	flush()

	return system, messages
}

func classifyAnthropicError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.NewTransportError("anthropic stream interrupted", err)
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyByStatusCode("anthropic", apiErr.StatusCode, err)
	}
	return models.NewTransportError("anthropic request failed", err)
}
