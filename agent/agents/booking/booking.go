// Package booking implements the hotel booking agent: parse_booking_request,
// check_availability, create_booking, confirm_booking, format_response.
// A booking is only ever created after the availability check in the same
// run succeeded; an unavailable hotel fails the run before create_booking.
package booking

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

	pipe, err := pipelinex.New(contractx.AgentTypeBooking, maxSteps,
		pipelinex.Step{
			Name:     "parse_booking_request",
			Produces: []string{"hotel_id", "check_in", "check_out", "guest_name", "guest_email", "rooms"},
			Run:      a.parseBookingRequest,
		},
		pipelinex.Step{
			Name:     "check_availability",
			Tool:     toolx.ToolCheckAvailability,
			Reads:    []string{"hotel_id", "check_in", "check_out", "rooms"},
			Produces: []string{"tool_results"},
			Run:      a.checkAvailability,
		},
		pipelinex.Step{
			Name:     "create_booking",
			Tool:     toolx.ToolCreateBooking,
			Reads:    []string{"hotel_id", "check_in", "check_out", "guest_name", "guest_email", "rooms"},
			Produces: []string{"booking_id", "tool_results"},
			Run:      a.createBooking,
		},
		pipelinex.Step{
			Name:     "confirm_booking",
			Tool:     toolx.ToolConfirmBooking,
			Reads:    []string{"booking_id"},
			Produces: []string{"tool_results"},
			Run:      a.confirmBooking,
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
	return contractx.AgentTypeBooking
}

func (a *Agent) Process(ctx context.Context, userMessage string, conversationID string) (contractx.PipelineResult, error) {
	return a.pipe.Run(ctx, pipelinex.NewWorkflowState(userMessage, conversationID))
}

func (a *Agent) parseBookingRequest(ctx context.Context, st *pipelinex.WorkflowState) error {
	params, err := nodex.ExtractParams(ctx, a.llm, a.opts, a.prompts.BookingParse, st.UserMessage)
	if err != nil {
		return err
	}
	for k, v := range params {
		st.SetParam(k, v)
	}

	if _, ok := st.StringParam("hotel_id"); !ok {
		return fmt.Errorf("%w: hotel_id", contractx.ErrMissingParameter)
	}
	return nil
}

func (a *Agent) checkAvailability(ctx context.Context, st *pipelinex.WorkflowState) error {
	_, err := nodex.CallTool(ctx, st, a.tools, "check_availability", toolx.ToolCheckAvailability, a.bookingArgs(st, false))
	return err
}

func (a *Agent) createBooking(ctx context.Context, st *pipelinex.WorkflowState) error {
	res, err := nodex.CallTool(ctx, st, a.tools, "create_booking", toolx.ToolCreateBooking, a.bookingArgs(st, true))
	if err != nil {
		return err
	}

	booking, _ := res["booking"].(map[string]any)
	bookingID, _ := booking["booking_id"].(string)
	if bookingID == "" {
		return contractx.NewToolError(contractx.ToolErrMalformedResponse, toolx.ToolCreateBooking,
			"create_booking result carries no booking_id")
	}
	st.SetParam("booking_id", bookingID)
	return nil
}

func (a *Agent) confirmBooking(ctx context.Context, st *pipelinex.WorkflowState) error {
	bookingID, ok := st.StringParam("booking_id")
	if !ok {
		return fmt.Errorf("%w: booking_id", contractx.ErrMissingParameter)
	}

	_, err := nodex.CallTool(ctx, st, a.tools, "confirm_booking", toolx.ToolConfirmBooking, map[string]any{
		"booking_id": bookingID,
	})
	return err
}

func (a *Agent) formatResponse(ctx context.Context, st *pipelinex.WorkflowState) error {
	availability, _ := st.LastToolResult(toolx.ToolCheckAvailability)
	confirmation, _ := st.LastToolResult(toolx.ToolConfirmBooking)

	payload := map[string]any{
		"booking_params": st.Params,
		"availability":   availability,
		"booking":        confirmation,
	}

	st.FinalResponse = nodex.FormatResponse(ctx, a.llm, a.opts, a.prompts.BookingFormat, payload, func() string {
		return fallbackConfirmation(st, confirmation)
	})
	return nil
}

func fallbackConfirmation(st *pipelinex.WorkflowState, confirmation map[string]any) string {
	booking, _ := confirmation["booking"].(map[string]any)
	hotelID, _ := st.StringParam("hotel_id")
	guest, _ := st.StringParam("guest_name")
	confNumber, _ := booking["confirmation_number"].(string)
	checkIn, _ := booking["check_in"].(string)
	checkOut, _ := booking["check_out"].(string)

	msg := fmt.Sprintf("Your booking at %s is confirmed", hotelID)
	if guest != "" {
		msg += " for " + guest
	}
	if checkIn != "" && checkOut != "" {
		msg += fmt.Sprintf(" from %s to %s", checkIn, checkOut)
	}
	if confNumber != "" {
		msg += fmt.Sprintf(". Confirmation number: %s", confNumber)
	}
	return msg + "."
}

func (a *Agent) bookingArgs(st *pipelinex.WorkflowState, withGuest bool) map[string]any {
	args := map[string]any{}
	if id, ok := st.StringParam("hotel_id"); ok {
		args["hotel_id"] = id
	}
	if in, ok := st.StringParam("check_in"); ok {
		args["check_in"] = in
	}
	if out, ok := st.StringParam("check_out"); ok {
		args["check_out"] = out
	}
	if rooms, ok := st.IntParam("rooms"); ok {
		args["rooms"] = rooms
	}
	if withGuest {
		if name, ok := st.StringParam("guest_name"); ok {
			args["guest_name"] = name
		}
		if email, ok := st.StringParam("guest_email"); ok {
			args["guest_email"] = email
		}
	}
	return args
}
