package pipeline

import (
	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

// WorkflowState is the mutable record threaded through one pipeline run.
// UserMessage is immutable for the run; ToolResults is append-only in step
// execution order; FinalResponse is set exactly once by the terminal step
// of a successful run.
type WorkflowState struct {
	ConversationID string
	UserMessage    string

	Params      map[string]any
	ToolResults []contractx.ToolTrace

	FinalResponse string
	Err           error
}

func NewWorkflowState(userMessage, conversationID string) *WorkflowState {
	return &WorkflowState{
		ConversationID: conversationID,
		UserMessage:    userMessage,
		Params:         make(map[string]any, 8),
	}
}

func (s *WorkflowState) SetParam(key string, val any) {
	if s.Params == nil {
		s.Params = make(map[string]any, 8)
	}
	s.Params[key] = val
}

// StringParam returns the named extracted parameter when it is a non-empty
// string. Absent or non-string values yield ok=false, never a zero default.
func (s *WorkflowState) StringParam(key string) (string, bool) {
	if s == nil || s.Params == nil {
		return "", false
	}
	v, ok := s.Params[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// IntParam returns the named parameter as an int, tolerating the float64
// shape JSON decoding produces.
func (s *WorkflowState) IntParam(key string) (int, bool) {
	if s == nil || s.Params == nil {
		return 0, false
	}
	switch v := s.Params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// FloatParam returns the named parameter as a float64.
func (s *WorkflowState) FloatParam(key string) (float64, bool) {
	if s == nil || s.Params == nil {
		return 0, false
	}
	switch v := s.Params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// RecordToolCall appends one audit-trail entry.
func (s *WorkflowState) RecordToolCall(step, tool string, result map[string]any) {
	s.ToolResults = append(s.ToolResults, contractx.ToolTrace{
		Step:   step,
		Tool:   tool,
		Result: result,
	})
}

// LastToolResult returns the most recent result recorded by the named tool.
func (s *WorkflowState) LastToolResult(tool string) (map[string]any, bool) {
	for i := len(s.ToolResults) - 1; i >= 0; i-- {
		if s.ToolResults[i].Tool == tool {
			return s.ToolResults[i].Result, true
		}
	}
	return nil, false
}
