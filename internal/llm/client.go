// Package llm provides streaming chat completion clients.
package llm

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/mfateev/codeagent/internal/models"
)

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	Model     string           `json:"model"`
	Messages  []models.Message `json:"messages"`
	MaxTokens int              `json:"max_tokens,omitempty"`
}

// ChatClient is the interface for LLM providers.
//
// StreamCompletion returns a lazy, single-use sequence of text deltas. The
// sequence ends when the provider closes the stream; a non-nil error is
// yielded at most once and ends the sequence. Stopping the range loop early
// releases the underlying connection.
type ChatClient interface {
	StreamCompletion(ctx context.Context, request CompletionRequest) iter.Seq2[string, error]
}

// Collect drains a delta sequence, echoing each delta to echo (if non-nil)
// as it arrives. The returned text holds everything read, including the
// partial response when err is non-nil.
func Collect(seq iter.Seq2[string, error], echo io.Writer) (string, error) {
	var b strings.Builder
	for delta, err := range seq {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(delta)
		if echo != nil {
			if _, werr := io.WriteString(echo, delta); werr != nil {
				return b.String(), werr
			}
		}
	}
	return b.String(), nil
}

// Complete issues a request and returns the full response without echoing.
func Complete(ctx context.Context, client ChatClient, request CompletionRequest) (string, error) {
	return Collect(client.StreamCompletion(ctx, request), nil)
}

// classifyByStatusCode maps an HTTP status code to a transport error with
// enough context to diagnose the failure. Shared by all providers.
func classifyByStatusCode(provider string, statusCode int, err error) *models.AgentError {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewTransportError(fmt.Sprintf("%s rejected credentials (%d)", provider, statusCode), err)
	case statusCode == http.StatusTooManyRequests:
		return models.NewTransportError(fmt.Sprintf("%s rate limit (%d)", provider, statusCode), err)
	case statusCode >= 400 && statusCode < 500:
		return models.NewTransportError(fmt.Sprintf("%s client error (%d)", provider, statusCode), err)
	case statusCode >= 500:
		return models.NewTransportError(fmt.Sprintf("%s server error (%d)", provider, statusCode), err)
	default:
		return models.NewTransportError(fmt.Sprintf("%s request failed", provider), err)
	}
}
