// Package nodes holds the step building blocks shared by the specialized
// agents: LLM parameter extraction, tool invocation with audit recording,
// and response formatting with a deterministic fallback.
package nodes

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
	pipelinex "github.com/tanpawarit/hotel-assistant/agent/pipeline"
	jsonx "github.com/tanpawarit/hotel-assistant/pkg/jsonx"
)

// ExtractParams runs one LLM call that pulls structured parameters out of
// the user message. A completion that carries no decodable JSON object
// degrades to an empty parameter set (partial extraction is tolerated;
// required-field checks belong to the caller). A failed LLM call propagates.
func ExtractParams(
	ctx context.Context,
	llm contractx.LLMClient,
	opts contractx.CompleteOptions,
	systemPrompt string,
	userMessage string,
) (map[string]any, error) {
	raw, err := llm.Complete(ctx, []contractx.Message{
		{Role: contractx.RoleSystem, Content: systemPrompt},
		{Role: contractx.RoleUser, Content: userMessage},
	}, opts)
	if err != nil {
		return nil, err
	}

	params, err := jsonx.ExtractObject(raw)
	if err != nil {
		if !errors.Is(err, jsonx.ErrNoObject) {
			return nil, err
		}
		log.Debug().Str("raw", raw).Msg("extraction returned no JSON object, using empty params")
		return map[string]any{}, nil
	}

	// Null means "not mentioned", not an extracted value.
	for k, v := range params {
		if v == nil {
			delete(params, k)
		}
	}
	return params, nil
}

// CallTool invokes the provider and appends the call to the state's audit
// trail. The entry is recorded only for successful calls; a failed call
// short-circuits the pipeline instead.
func CallTool(
	ctx context.Context,
	st *pipelinex.WorkflowState,
	provider contractx.ToolProvider,
	step string,
	tool string,
	args map[string]any,
) (map[string]any, error) {
	result, err := provider.Call(ctx, tool, args)
	if err != nil {
		return nil, err
	}
	st.RecordToolCall(step, tool, result)
	return result, nil
}

// FormatResponse renders the accumulated results into natural language with
// one LLM call. An LLM failure here never fails the pipeline: the caller's
// deterministic fallback keeps a presentation failure from masking a
// successful domain operation.
func FormatResponse(
	ctx context.Context,
	llm contractx.LLMClient,
	opts contractx.CompleteOptions,
	systemPrompt string,
	payload any,
	fallback func() string,
) string {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Msg("marshal format payload failed, using fallback response")
		return fallback()
	}

	text, err := llm.Complete(ctx, []contractx.Message{
		{Role: contractx.RoleSystem, Content: systemPrompt},
		{Role: contractx.RoleUser, Content: string(body)},
	}, opts)
	if err != nil {
		log.Warn().Err(err).Msg("format LLM call failed, using fallback response")
		return fallback()
	}
	return text
}
