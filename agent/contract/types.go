package contract

import "time"

type AgentType string

const (
	AgentTypeSearch   AgentType = "search"
	AgentTypeBooking  AgentType = "booking"
	AgentTypeCustomer AgentType = "customer"
)

// Role values for chat messages exchanged with the LLM and persisted
// in conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompleteOptions carries per-call sampling controls for an LLM completion.
type CompleteOptions struct {
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// ToolTrace is one entry of the pipeline audit trail: which step called
// which tool and what came back. Entries are append-only and ordered by
// step execution order.
type ToolTrace struct {
	Step   string         `json:"step"`
	Tool   string         `json:"tool"`
	Result map[string]any `json:"result,omitempty"`
}

// StepTrace summarizes one executed step for the caller-facing result.
type StepTrace struct {
	Step    string `json:"step"`
	Tool    string `json:"tool,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// PipelineResult is what the coordinator returns for one handled message.
type PipelineResult struct {
	Agent    AgentType   `json:"agent"`
	Response string      `json:"response"`
	Steps    []StepTrace `json:"steps"`
}

// MessageRecord is one persisted conversation turn. Records are appended,
// never mutated retroactively.
type MessageRecord struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	AgentName string         `json:"agent_name,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
