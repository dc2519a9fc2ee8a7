package contract

import (
	"errors"
	"fmt"
)

var (
	ErrClassificationFailed = errors.New("classification failed")
	ErrMissingParameter     = errors.New("missing required parameter")
	ErrHistoryUnavailable   = errors.New("conversation history unavailable")
)

type ToolErrorKind string

const (
	ToolErrUnreachable       ToolErrorKind = "unreachable"
	ToolErrTimeout           ToolErrorKind = "timeout"
	ToolErrMalformedResponse ToolErrorKind = "malformed_response"
	ToolErrDomainRejected    ToolErrorKind = "domain_rejected"
)

// ToolError is the uniform failure shape of a tool provider call.
// DomainRejected covers business-rule refusals (no availability, unknown
// hotel) so callers can render a helpful message instead of a generic one.
type ToolError struct {
	Kind    ToolErrorKind
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed (%s): %s", e.Tool, e.Kind, e.Message)
}

func NewToolError(kind ToolErrorKind, tool, format string, args ...any) *ToolError {
	return &ToolError{Kind: kind, Tool: tool, Message: fmt.Sprintf(format, args...)}
}

// IsToolRejection reports whether err is a domain-level tool refusal.
func IsToolRejection(err error) bool {
	var te *ToolError
	return errors.As(err, &te) && te.Kind == ToolErrDomainRejected
}

type LLMErrorKind string

const (
	LLMErrTimeout           LLMErrorKind = "timeout"
	LLMErrProviderError     LLMErrorKind = "provider_error"
	LLMErrMalformedResponse LLMErrorKind = "malformed_response"
)

type LLMError struct {
	Kind    LLMErrorKind
	Message string
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm call failed (%s): %s", e.Kind, e.Message)
}

func NewLLMError(kind LLMErrorKind, format string, args ...any) *LLMError {
	return &LLMError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
