package contract

import "context"

// LLMClient is the single capability the core needs from a language model
// vendor. Vendor selection happens once at construction; implementations
// live in pkg/openaix and pkg/anthropicx.
type LLMClient interface {
	Complete(ctx context.Context, messages []Message, opts CompleteOptions) (string, error)
}

// ToolProvider exposes named operations over a uniform call contract.
// Failures are returned as *ToolError so callers never need to distinguish
// transport failures from domain failures structurally.
type ToolProvider interface {
	Call(ctx context.Context, tool string, args map[string]any) (map[string]any, error)
}

// Agent is one specialized handler owning a fixed step pipeline.
type Agent interface {
	Type() AgentType
	Process(ctx context.Context, userMessage string, conversationID string) (PipelineResult, error)
}

// Registry resolves the fixed set of specialized agents.
type Registry interface {
	Search() Agent
	Booking() Agent
	Customer() Agent
}

// ConversationStore is the optional history collaborator. A nil store is
// valid; callers degrade to no history rather than failing.
type ConversationStore interface {
	AppendMessage(ctx context.Context, conversationID string, record MessageRecord) error
	GetHistory(ctx context.Context, conversationID string) ([]MessageRecord, error)
}
