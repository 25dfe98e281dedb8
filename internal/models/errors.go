package models

import (
	"errors"
	"fmt"
)

// ErrorType categorizes errors for appropriate handling
type ErrorType int

const (
	ErrorTypeConfig            ErrorType = iota // Missing credentials/endpoint → exit before the loop
	ErrorTypeTransport                          // Provider call or stream failed → report, finish the turn
	ErrorTypeMalformedResponse                  // Action list could not be parsed → no actions run
	ErrorTypeActionExecution                    // One action failed → continue with the next
	ErrorTypeSummarization                      // Summary request failed → keep history as is
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeConfig:
		return "Config"
	case ErrorTypeTransport:
		return "Transport"
	case ErrorTypeMalformedResponse:
		return "MalformedResponse"
	case ErrorTypeActionExecution:
		return "ActionExecution"
	case ErrorTypeSummarization:
		return "Summarization"
	default:
		return "Unknown"
	}
}

// AgentError is a categorized error raised by the agent core.
type AgentError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *AgentError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a fatal configuration error.
func NewConfigError(message string) *AgentError {
	return &AgentError{Type: ErrorTypeConfig, Message: message}
}

// NewTransportError wraps a provider failure.
func NewTransportError(message string, cause error) *AgentError {
	return &AgentError{Type: ErrorTypeTransport, Message: message, Cause: cause}
}

// NewMalformedResponseError reports a model response without a usable action list.
func NewMalformedResponseError(message string, cause error) *AgentError {
	return &AgentError{Type: ErrorTypeMalformedResponse, Message: message, Cause: cause}
}

// NewActionExecutionError reports a failure of a single action, naming its kind and target.
func NewActionExecutionError(kind ActionKind, target string, cause error) *AgentError {
	return &AgentError{
		Type:    ErrorTypeActionExecution,
		Message: fmt.Sprintf("%s %s", kind, target),
		Cause:   cause,
	}
}

// NewSummarizationError wraps a failed summary request.
func NewSummarizationError(cause error) *AgentError {
	return &AgentError{Type: ErrorTypeSummarization, Message: "summarize conversation", Cause: cause}
}

func isType(err error, t ErrorType) bool {
	var agentErr *AgentError
	return errors.As(err, &agentErr) && agentErr.Type == t
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool { return isType(err, ErrorTypeConfig) }

// IsTransportError checks if an error came from the LLM provider.
func IsTransportError(err error) bool { return isType(err, ErrorTypeTransport) }

// IsMalformedResponse checks if an error is an action-list parse failure.
func IsMalformedResponse(err error) bool { return isType(err, ErrorTypeMalformedResponse) }

// IsActionExecutionError checks if an error is an isolated action failure.
func IsActionExecutionError(err error) bool { return isType(err, ErrorTypeActionExecution) }

// IsSummarizationError checks if an error is a summarization failure.
func IsSummarizationError(err error) bool { return isType(err, ErrorTypeSummarization) }
