package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Intent is what the user wants from a turn.
type Intent int

const (
	IntentProvideInfo Intent = iota
	IntentAsk
	IntentGenerateCode
)

// Intents lists every intent in menu order.
func Intents() []Intent {
	return []Intent{IntentProvideInfo, IntentAsk, IntentGenerateCode}
}

// String returns the menu label.
func (i Intent) String() string {
	switch i {
	case IntentProvideInfo:
		return "Provide Info"
	case IntentAsk:
		return "Ask"
	case IntentGenerateCode:
		return "Generate Code"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	return i >= IntentProvideInfo && i <= IntentGenerateCode
}

// Request is one user turn: an intent plus its free-text payload. Text is
// optional for IntentGenerateCode.
type Request struct {
	Intent Intent
	Text   string
}

// ErrQuit is returned by a Prompter when the user asks to leave.
var ErrQuit = errors.New("quit")

// Prompter supplies user requests. Next blocks until the user picks an
// intent and enters its payload. Returning io.EOF or ErrQuit ends the session.
type Prompter interface {
	Next(ctx context.Context) (Request, error)
}

// ScriptedPrompter replays a fixed list of requests, then returns io.EOF.
type ScriptedPrompter struct {
	requests []Request
}

// NewScriptedPrompter creates a prompter over requests.
func NewScriptedPrompter(requests ...Request) *ScriptedPrompter {
	return &ScriptedPrompter{requests: requests}
}

// Next implements Prompter.
func (p *ScriptedPrompter) Next(ctx context.Context) (Request, error) {
	if err := ctx.Err(); err != nil {
		return Request{}, err
	}
	if len(p.requests) == 0 {
		return Request{}, io.EOF
	}
	req := p.requests[0]
	p.requests = p.requests[1:]
	return req, nil
}
