// Package models contains shared types for the codeagent project.
package models

import "fmt"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles a chat transcript may carry.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// ValidateRole returns an error for roles outside {system, user, assistant}.
func ValidateRole(r Role) error {
	if !r.Valid() {
		return fmt.Errorf("invalid message role %q", r)
	}
	return nil
}

// Message is a single entry of the conversation transcript.
// Insertion order is meaningful: the ordered slice is sent to the model verbatim.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
