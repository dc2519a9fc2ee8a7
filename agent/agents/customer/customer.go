// Package customer implements the customer data agent:
// parse_customer_query, fetch_customer_data, format_response.
package customer

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
	nodex "github.com/tanpawarit/hotel-assistant/agent/nodes"
	pipelinex "github.com/tanpawarit/hotel-assistant/agent/pipeline"
	promptx "github.com/tanpawarit/hotel-assistant/agent/prompt"
	toolx "github.com/tanpawarit/hotel-assistant/agent/tool"
)

// Query subtypes the parse step recognizes.
const (
	QueryProfile = "profile"
	QueryTrips   = "trips"
	QueryRewards = "rewards"
	QueryAll     = "all"
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

	pipe, err := pipelinex.New(contractx.AgentTypeCustomer, maxSteps,
		pipelinex.Step{
			Name:     "parse_customer_query",
			Produces: []string{"customer_id", "email", "query_type", "trip_status"},
			Run:      a.parseCustomerQuery,
		},
		pipelinex.Step{
			Name:     "fetch_customer_data",
			Tool:     toolx.ToolGetCustomerProfile,
			Reads:    []string{"customer_id", "email", "query_type", "trip_status"},
			Produces: []string{"tool_results"},
			Run:      a.fetchCustomerData,
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
	return contractx.AgentTypeCustomer
}

func (a *Agent) Process(ctx context.Context, userMessage string, conversationID string) (contractx.PipelineResult, error) {
	return a.pipe.Run(ctx, pipelinex.NewWorkflowState(userMessage, conversationID))
}

func (a *Agent) parseCustomerQuery(ctx context.Context, st *pipelinex.WorkflowState) error {
	params, err := nodex.ExtractParams(ctx, a.llm, a.opts, a.prompts.CustomerParse, st.UserMessage)
	if err != nil {
		return err
	}
	for k, v := range params {
		st.SetParam(k, v)
	}

	_, hasID := st.StringParam("customer_id")
	_, hasEmail := st.StringParam("email")
	if !hasID && !hasEmail {
		return fmt.Errorf("%w: customer_id or email", contractx.ErrMissingParameter)
	}

	if _, ok := st.StringParam("query_type"); !ok {
		st.SetParam("query_type", QueryAll)
	}
	return nil
}

// fetchCustomerData resolves the profile first (when asked for, or when only
// an email is known), then fans out to trips and rewards according to the
// query subtype. Each provider call lands in the audit trail in call order.
func (a *Agent) fetchCustomerData(ctx context.Context, st *pipelinex.WorkflowState) error {
	queryType, _ := st.StringParam("query_type")
	customerID, hasID := st.StringParam("customer_id")

	wantProfile := queryType == QueryProfile || queryType == QueryAll
	if wantProfile || !hasID {
		args := map[string]any{}
		if hasID {
			args["customer_id"] = customerID
		}
		if email, ok := st.StringParam("email"); ok {
			args["email"] = email
		}

		res, err := nodex.CallTool(ctx, st, a.tools, "fetch_customer_data", toolx.ToolGetCustomerProfile, args)
		if err != nil {
			return err
		}
		profile, _ := res["profile"].(map[string]any)
		if id, ok := profile["customer_id"].(string); ok && id != "" {
			customerID = id
			st.SetParam("customer_id", id)
		}
	}

	if queryType == QueryTrips || queryType == QueryAll {
		args := map[string]any{"customer_id": customerID}
		if status, ok := st.StringParam("trip_status"); ok {
			args["status"] = status
		}
		if _, err := nodex.CallTool(ctx, st, a.tools, "fetch_customer_data", toolx.ToolGetCustomerTrips, args); err != nil {
			return err
		}
	}

	if queryType == QueryRewards || queryType == QueryAll {
		args := map[string]any{"customer_id": customerID}
		if _, err := nodex.CallTool(ctx, st, a.tools, "fetch_customer_data", toolx.ToolGetCustomerRewards, args); err != nil {
			return err
		}
	}

	return nil
}

func (a *Agent) formatResponse(ctx context.Context, st *pipelinex.WorkflowState) error {
	payload := map[string]any{
		"customer_params": st.Params,
		"customer_data":   st.ToolResults,
	}

	st.FinalResponse = nodex.FormatResponse(ctx, a.llm, a.opts, a.prompts.CustomerFormat, payload, func() string {
		return fallbackProfileSummary(st)
	})
	return nil
}

func fallbackProfileSummary(st *pipelinex.WorkflowState) string {
	profileRes, ok := st.LastToolResult(toolx.ToolGetCustomerProfile)
	if !ok {
		customerID, _ := st.StringParam("customer_id")
		return fmt.Sprintf("Here is the data I retrieved for %s.", customerID)
	}
	profile, _ := profileRes["profile"].(map[string]any)
	name, _ := profile["name"].(string)
	tier, _ := profile["loyalty_tier"].(string)
	if name == "" {
		return "Here is your customer data."
	}
	msg := fmt.Sprintf("Here is the profile for %s", name)
	if tier != "" {
		msg += fmt.Sprintf(" (%s member)", tier)
	}
	return msg + "."
}
