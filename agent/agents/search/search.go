// Package search implements the hotel search agent: a fixed four-step
// pipeline of parse_query, search_hotels, filter_results, format_response.
package search

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
	nodex "github.com/tanpawarit/hotel-assistant/agent/nodes"
	pipelinex "github.com/tanpawarit/hotel-assistant/agent/pipeline"
	promptx "github.com/tanpawarit/hotel-assistant/agent/prompt"
	toolx "github.com/tanpawarit/hotel-assistant/agent/tool"
)

type Agent struct {
	llm     contractx.LLMClient
	tools   contractx.ToolProvider
	opts    contractx.CompleteOptions
	prompts promptx.PromptSet
	pipe    *pipelinex.Pipeline
}

var _ contractx.Agent = (*Agent)(nil)

func New(llm contractx.LLMClient, tools contractx.ToolProvider, opts contractx.CompleteOptions, maxSteps int) (*Agent, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if tools == nil {
		return nil, fmt.Errorf("tool provider is required")
	}

	a := &Agent{
		llm:     llm,
		tools:   tools,
		opts:    opts,
		prompts: promptx.LoadPromptSet(),
	}

	pipe, err := pipelinex.New(contractx.AgentTypeSearch, maxSteps,
		pipelinex.Step{
			Name:     "parse_query",
			Produces: []string{"location", "check_in", "check_out", "guests", "min_rating", "max_price", "amenities", "hotel_type"},
			Run:      a.parseQuery,
		},
		pipelinex.Step{
			Name:     "search_hotels",
			Tool:     toolx.ToolSearchHotels,
			Reads:    []string{"location", "check_in", "check_out", "guests"},
			Produces: []string{"tool_results"},
			Run:      a.searchHotels,
		},
		pipelinex.Step{
			Name:     "filter_results",
			Tool:     toolx.ToolFilterHotels,
			Reads:    []string{"min_rating", "max_price", "amenities", "hotel_type", "tool_results"},
			Produces: []string{"tool_results"},
			Run:      a.filterResults,
		},
		pipelinex.Step{
			Name:     "format_response",
			Reads:    []string{"tool_results"},
			Produces: []string{"final_response"},
			Run:      a.formatResponse,
		},
	)
	if err != nil {
		return nil, err
	}
	a.pipe = pipe
	return a, nil
}

func (a *Agent) Type() contractx.AgentType {
	return contractx.AgentTypeSearch
}

func (a *Agent) Process(ctx context.Context, userMessage string, conversationID string) (contractx.PipelineResult, error) {
	return a.pipe.Run(ctx, pipelinex.NewWorkflowState(userMessage, conversationID))
}

func (a *Agent) parseQuery(ctx context.Context, st *pipelinex.WorkflowState) error {
	params, err := nodex.ExtractParams(ctx, a.llm, a.opts, a.prompts.SearchParse, st.UserMessage)
	if err != nil {
		return err
	}
	for k, v := range params {
		st.SetParam(k, v)
	}
	// A search with no extracted criteria is still valid: it browses the
	// whole catalog.
	return nil
}

func (a *Agent) searchHotels(ctx context.Context, st *pipelinex.WorkflowState) error {
	args := map[string]any{}
	if loc, ok := st.StringParam("location"); ok {
		args["location"] = loc
	}
	if in, ok := st.StringParam("check_in"); ok {
		args["check_in"] = in
	}
	if out, ok := st.StringParam("check_out"); ok {
		args["check_out"] = out
	}
	if guests, ok := st.IntParam("guests"); ok {
		args["guests"] = guests
	}

	_, err := nodex.CallTool(ctx, st, a.tools, "search_hotels", toolx.ToolSearchHotels, args)
	return err
}

// filterResults narrows the located hotels by the extracted filter criteria.
// The provider filters the whole catalog, so the step keeps only hotels
// present in both the search result and the filter result.
func (a *Agent) filterResults(ctx context.Context, st *pipelinex.WorkflowState) error {
	searchRes, ok := st.LastToolResult(toolx.ToolSearchHotels)
	if !ok {
		return fmt.Errorf("filter_results ran before search_hotels")
	}

	args := map[string]any{}
	if r, ok := st.FloatParam("min_rating"); ok {
		args["min_rating"] = r
	}
	if p, ok := st.IntParam("max_price"); ok {
		args["max_price"] = p
	}
	if t, ok := st.StringParam("hotel_type"); ok {
		args["hotel_type"] = t
	}
	if a, ok := st.Params["amenities"]; ok {
		args["amenities"] = a
	}

	filterRes, err := a.tools.Call(ctx, toolx.ToolFilterHotels, args)
	if err != nil {
		return err
	}

	narrowed := intersectByID(resultList(searchRes), resultList(filterRes))
	st.RecordToolCall("filter_results", toolx.ToolFilterHotels, map[string]any{
		"success":         true,
		"results":         narrowed,
		"total_count":     len(narrowed),
		"filters_applied": filterRes["filters_applied"],
	})
	return nil
}

func (a *Agent) formatResponse(ctx context.Context, st *pipelinex.WorkflowState) error {
	filtered, _ := st.LastToolResult(toolx.ToolFilterHotels)
	hotels := resultList(filtered)

	payload := map[string]any{
		"search_params": st.Params,
		"results":       hotels,
		"results_count": len(hotels),
	}

	st.FinalResponse = nodex.FormatResponse(ctx, a.llm, a.opts, a.prompts.SearchFormat, payload, func() string {
		return fallbackSummary(st, hotels)
	})
	return nil
}

func fallbackSummary(st *pipelinex.WorkflowState, hotels []map[string]any) string {
	location, _ := st.StringParam("location")
	if len(hotels) == 0 {
		if location != "" {
			return fmt.Sprintf("I could not find any hotels matching your search in %s. Try different dates or another location.", location)
		}
		return "I could not find any hotels matching your search. Try different dates or another location."
	}

	msg := fmt.Sprintf("I found %d hotel(s)", len(hotels))
	if location != "" {
		msg += " in " + location
	}
	msg += ":"
	for _, h := range hotels {
		name, _ := h["name"].(string)
		price, _ := h["price_per_night"].(float64)
		rating, _ := h["rating"].(float64)
		msg += fmt.Sprintf("\n- %s (rating %.1f, $%.0f/night)", name, rating, price)
	}
	return msg
}

func resultList(res map[string]any) []map[string]any {
	raw, _ := res["results"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	if out2, ok := res["results"].([]map[string]any); ok {
		return out2
	}
	return out
}

func intersectByID(base, allowed []map[string]any) []map[string]any {
	ids := make(map[string]struct{}, len(allowed))
	for _, h := range allowed {
		if id, ok := h["id"].(string); ok {
			ids[id] = struct{}{}
		}
	}
	out := make([]map[string]any, 0, len(base))
	for _, h := range base {
		id, ok := h["id"].(string)
		if !ok {
			continue
		}
		if _, ok := ids[id]; ok {
			out = append(out, h)
		}
	}
	return out
}
