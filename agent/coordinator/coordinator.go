// Package coordinator routes inbound messages to exactly one specialized
// agent based on a single LLM classification call.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
	promptx "github.com/tanpawarit/hotel-assistant/agent/prompt"
)

var ErrInvalidMessage = errors.New("message is empty")

// Classification options the LLM guard accepts, in one sampling call at
// temperature zero for stable routing.
var classifierOpts = contractx.CompleteOptions{Temperature: 0, MaxTokens: 10}

type Coordinator struct {
	llm    contractx.LLMClient
	agents contractx.Registry
	store  contractx.ConversationStore

	classifierPrompt string

	now func() time.Time
}

func New(llm contractx.LLMClient, agents contractx.Registry, store contractx.ConversationStore) (*Coordinator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if agents == nil {
		return nil, errors.New("agent registry is required")
	}

	return &Coordinator{
		llm:              llm,
		agents:           agents,
		store:            store,
		classifierPrompt: promptx.LoadPromptSet().Classifier,
		now:              time.Now,
	}, nil
}

// HandleMessage classifies the message, delegates to the selected agent's
// pipeline, and appends the turn to conversation history when a store is
// configured. History failures degrade to a log line, never to a failed run.
func (c *Coordinator) HandleMessage(ctx context.Context, message string, conversationID string) (contractx.PipelineResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return contractx.PipelineResult{}, ErrInvalidMessage
	}

	agentType, err := c.classify(ctx, message)
	if err != nil {
		return contractx.PipelineResult{}, err
	}

	agent := c.agentFor(agentType)
	result, err := agent.Process(ctx, message, conversationID)
	if err != nil {
		return result, err
	}

	c.appendHistory(ctx, conversationID, message, result)
	return result, nil
}

// classify runs the single routing call. A completion that succeeds but
// carries no recognizable label defaults to search (the documented
// fallback); a failed LLM call surfaces ErrClassificationFailed without
// invoking any agent.
func (c *Coordinator) classify(ctx context.Context, message string) (contractx.AgentType, error) {
	raw, err := c.llm.Complete(ctx, []contractx.Message{
		{Role: contractx.RoleSystem, Content: c.classifierPrompt},
		{Role: contractx.RoleUser, Content: message},
	}, classifierOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrClassificationFailed, err)
	}

	intent := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(intent, "book"):
		return contractx.AgentTypeBooking, nil
	case strings.Contains(intent, "customer"):
		return contractx.AgentTypeCustomer, nil
	case strings.Contains(intent, "search"):
		return contractx.AgentTypeSearch, nil
	default:
		log.Debug().Str("intent", intent).Msg("unrecognized intent label, defaulting to search")
		return contractx.AgentTypeSearch, nil
	}
}

func (c *Coordinator) agentFor(agentType contractx.AgentType) contractx.Agent {
	switch agentType {
	case contractx.AgentTypeBooking:
		return c.agents.Booking()
	case contractx.AgentTypeCustomer:
		return c.agents.Customer()
	default:
		return c.agents.Search()
	}
}

// History returns the persisted conversation, or ErrHistoryUnavailable when
// no store is configured or the store cannot serve the read.
func (c *Coordinator) History(ctx context.Context, conversationID string) ([]contractx.MessageRecord, error) {
	if c.store == nil {
		return nil, contractx.ErrHistoryUnavailable
	}
	records, err := c.store.GetHistory(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrHistoryUnavailable, err)
	}
	return records, nil
}

func (c *Coordinator) appendHistory(ctx context.Context, conversationID, message string, result contractx.PipelineResult) {
	if c.store == nil || strings.TrimSpace(conversationID) == "" {
		return
	}

	now := c.now().UTC()
	records := []contractx.MessageRecord{
		{
			ID:        uuid.NewString(),
			Role:      contractx.RoleUser,
			Content:   message,
			Timestamp: now,
		},
		{
			ID:        uuid.NewString(),
			Role:      contractx.RoleAssistant,
			Content:   result.Response,
			AgentName: string(result.Agent),
			Metadata:  map[string]any{"steps": stepNames(result.Steps)},
			Timestamp: now,
		},
	}

	for _, rec := range records {
		if err := c.store.AppendMessage(ctx, conversationID, rec); err != nil {
			log.Warn().
				Str("conversation_id", conversationID).
				Err(err).
				Msg("conversation history unavailable, continuing without persistence")
			return
		}
	}
}

func stepNames(steps []contractx.StepTrace) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Step
	}
	return names
}
