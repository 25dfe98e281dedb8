// Package llmtest provides a scripted ChatClient for tests.
package llmtest

import (
	"context"
	"iter"
	"sync"

	"github.com/mfateev/codeagent/internal/llm"
)

// Reply is one scripted response: deltas are yielded in order, then Err (if any).
type Reply struct {
	Deltas []string
	Err    error
}

// Text builds a reply that streams s in a few chunks.
func Text(s string) Reply {
	var deltas []string
	for len(s) > 0 {
		n := 7
		if n > len(s) {
			n = len(s)
		}
		deltas = append(deltas, s[:n])
		s = s[n:]
	}
	return Reply{Deltas: deltas}
}

// Client replays scripted replies, one per StreamCompletion call, and records
// every request. Calls beyond the script yield an empty response.
type Client struct {
	mu       sync.Mutex
	replies  []Reply
	Requests []llm.CompletionRequest
}

// NewClient creates a client with the given script.
func NewClient(replies ...Reply) *Client {
	return &Client{replies: replies}
}

// StreamCompletion implements llm.ChatClient.
func (c *Client) StreamCompletion(ctx context.Context, request llm.CompletionRequest) iter.Seq2[string, error] {
	c.mu.Lock()
	c.Requests = append(c.Requests, request)
	var reply Reply
	if len(c.replies) > 0 {
		reply = c.replies[0]
		c.replies = c.replies[1:]
	}
	c.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, d := range reply.Deltas {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(d, nil) {
				return
			}
		}
		if reply.Err != nil {
			yield("", reply.Err)
		}
	}
}

// LastRequest returns the most recent request, or the zero value.
func (c *Client) LastRequest() llm.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Requests) == 0 {
		return llm.CompletionRequest{}
	}
	return c.Requests[len(c.Requests)-1]
}
