// Package actions turns a model response into file and command actions and
// applies them to the local workspace.
package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mfateev/codeagent/internal/models"
)

const (
	// OpenFence marks the start of the action list in a model response.
	OpenFence = "```json"
	// CloseFence marks the end of a fenced block.
	CloseFence = "```"
)

// Parser extracts an ordered action list from a raw model response.
type Parser interface {
	Parse(raw string) ([]models.Action, error)
}

// FenceParser takes everything between the first OpenFence and the last
// CloseFence as a JSON array of actions. It assumes the response holds one
// fenced block; a second fence after the list is swallowed into the payload.
type FenceParser struct{}

// NewFenceParser creates the default parser.
func NewFenceParser() *FenceParser {
	return &FenceParser{}
}

// Parse implements Parser. All failures are MalformedResponse errors.
func (p *FenceParser) Parse(raw string) ([]models.Action, error) {
	payload, err := extractFenced(raw)
	if err != nil {
		return nil, err
	}
	return Decode([]byte(payload))
}

func extractFenced(raw string) (string, error) {
	start := strings.Index(raw, OpenFence)
	if start < 0 {
		return "", models.NewMalformedResponseError("no "+OpenFence+" block in response", nil)
	}
	bodyStart := start + len(OpenFence)
	end := strings.LastIndex(raw, CloseFence)
	if end < bodyStart {
		return "", models.NewMalformedResponseError("unterminated "+OpenFence+" block in response", nil)
	}
	return raw[bodyStart:end], nil
}

// Decode parses a JSON array of action objects. Each object must carry a
// string "action" discriminator; unrecognized discriminators decode to
// models.UnknownAction.
func Decode(data []byte) ([]models.Action, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, models.NewMalformedResponseError("action list is not a JSON array", err)
	}
	if entries == nil {
		return nil, models.NewMalformedResponseError("action list is not a JSON array", fmt.Errorf("got %s", truncate(string(bytes.TrimSpace(data)), 40)))
	}

	result := make([]models.Action, 0, len(entries))
	for i, entry := range entries {
		action, err := decodeOne(entry)
		if err != nil {
			return nil, models.NewMalformedResponseError(fmt.Sprintf("action %d", i), err)
		}
		result = append(result, action)
	}
	return result, nil
}

func decodeOne(entry json.RawMessage) (models.Action, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(entry), []byte("{")) {
		return nil, fmt.Errorf("expected an object, got %s", truncate(string(entry), 40))
	}

	var head struct {
		Action *string `json:"action"`
	}
	if err := json.Unmarshal(entry, &head); err != nil {
		return nil, fmt.Errorf("invalid action discriminator: %w", err)
	}
	if head.Action == nil {
		return nil, fmt.Errorf(`missing "action" field`)
	}

	switch models.ActionKind(*head.Action) {
	case models.ActionAddFile:
		var a models.AddFile
		if err := json.Unmarshal(entry, &a); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", models.ActionAddFile, err)
		}
		return a, nil
	case models.ActionEditFile:
		var e models.EditFile
		if err := json.Unmarshal(entry, &e); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", models.ActionEditFile, err)
		}
		return e, nil
	case models.ActionRunCommand:
		var r models.RunCommand
		if err := json.Unmarshal(entry, &r); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", models.ActionRunCommand, err)
		}
		return r, nil
	default:
		raw := make(json.RawMessage, len(entry))
		copy(raw, entry)
		return models.UnknownAction{Name: *head.Action, Raw: raw}, nil
	}
}

// Encode renders actions as an indented JSON array inside a fenced block,
// the format Parse accepts.
func Encode(actions []models.Action) (string, error) {
	if actions == nil {
		actions = []models.Action{}
	}
	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return "", err
	}
	return OpenFence + "\n" + string(data) + "\n" + CloseFence, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
