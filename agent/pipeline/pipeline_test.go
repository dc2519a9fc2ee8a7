package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

func recordingStep(name, tool string, order *[]string, fail error) Step {
	return Step{
		Name: name,
		Tool: tool,
		Run: func(ctx context.Context, st *WorkflowState) error {
			*order = append(*order, name)
			if fail != nil {
				return fail
			}
			if tool != "" {
				st.RecordToolCall(name, tool, map[string]any{"success": true})
			}
			return nil
		},
	}
}

func finalStep(order *[]string) Step {
	return Step{
		Name: "format_response",
		Run: func(ctx context.Context, st *WorkflowState) error {
			*order = append(*order, "format_response")
			st.FinalResponse = "done"
			return nil
		},
	}
}

func TestNewRejectsEmptyPipeline(t *testing.T) {
	t.Parallel()

	_, err := New(contractx.AgentTypeSearch, 10)
	if !errors.Is(err, ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
}

func TestNewRejectsOverBudgetPipeline(t *testing.T) {
	t.Parallel()

	var order []string
	steps := make([]Step, 0, 4)
	for i := 0; i < 4; i++ {
		steps = append(steps, recordingStep(fmt.Sprintf("step_%d", i), "", &order, nil))
	}

	_, err := New(contractx.AgentTypeSearch, 3, steps...)
	if !errors.Is(err, ErrStepBudget) {
		t.Fatalf("expected ErrStepBudget, got %v", err)
	}
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	p, err := New(contractx.AgentTypeSearch, 10,
		recordingStep("parse_query", "", &order, nil),
		recordingStep("search_hotels", "search_hotels", &order, nil),
		finalStep(&order),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := p.Run(context.Background(), NewWorkflowState("hotels in Paris", "conv-1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Response != "done" {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	if result.Agent != contractx.AgentTypeSearch {
		t.Fatalf("unexpected agent: %s", result.Agent)
	}

	want := []string{"parse_query", "search_hotels", "format_response"}
	if len(order) != len(want) {
		t.Fatalf("expected %d steps run, got %d: %v", len(want), len(order), order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("step %d: expected %s, got %s", i, name, order[i])
		}
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 step traces, got %d", len(result.Steps))
	}
	if result.Steps[1].Tool != "search_hotels" {
		t.Fatalf("unexpected tool on trace: %s", result.Steps[1].Tool)
	}
}

func TestRunShortCircuitsOnStepError(t *testing.T) {
	t.Parallel()

	stepErr := errors.New("availability check failed")
	var order []string
	p, err := New(contractx.AgentTypeBooking, 10,
		recordingStep("check_availability", "check_availability", &order, stepErr),
		recordingStep("create_booking", "create_booking", &order, nil),
		finalStep(&order),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := p.Run(context.Background(), NewWorkflowState("book hotel_1", ""))
	if !errors.Is(err, stepErr) {
		t.Fatalf("expected step error, got %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("expected only the failing step to run, got %v", order)
	}
	if len(result.Steps) != 0 {
		t.Fatalf("failed step must not appear in traces, got %v", result.Steps)
	}
}

func TestRunRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	var order []string
	p, err := New(contractx.AgentTypeSearch, 10, finalStep(&order))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = p.Run(context.Background(), NewWorkflowState("   ", ""))
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("no steps should run on empty message, got %v", order)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	var order []string
	p, err := New(contractx.AgentTypeSearch, 10,
		recordingStep("parse_query", "", &order, nil),
		finalStep(&order),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx, NewWorkflowState("hotels in Paris", ""))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("no steps should run after cancellation, got %v", order)
	}
}

func TestRunRequiresFinalResponse(t *testing.T) {
	t.Parallel()

	var order []string
	p, err := New(contractx.AgentTypeSearch, 10,
		recordingStep("parse_query", "", &order, nil),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = p.Run(context.Background(), NewWorkflowState("hotels in Paris", ""))
	if err == nil {
		t.Fatal("expected error when no step sets a final response")
	}
}

func TestWorkflowStateParamAccessors(t *testing.T) {
	t.Parallel()

	st := NewWorkflowState("msg", "")
	st.SetParam("location", "Paris")
	st.SetParam("guests", float64(2))
	st.SetParam("min_rating", 4.5)

	if loc, ok := st.StringParam("location"); !ok || loc != "Paris" {
		t.Fatalf("StringParam(location) = %q, %v", loc, ok)
	}
	if guests, ok := st.IntParam("guests"); !ok || guests != 2 {
		t.Fatalf("IntParam(guests) = %d, %v", guests, ok)
	}
	if rating, ok := st.FloatParam("min_rating"); !ok || rating != 4.5 {
		t.Fatalf("FloatParam(min_rating) = %v, %v", rating, ok)
	}
	if _, ok := st.StringParam("missing"); ok {
		t.Fatal("StringParam(missing) should report not ok")
	}
}

func TestLastToolResultReturnsMostRecent(t *testing.T) {
	t.Parallel()

	st := NewWorkflowState("msg", "")
	st.RecordToolCall("a", "search_hotels", map[string]any{"total_count": 1})
	st.RecordToolCall("b", "search_hotels", map[string]any{"total_count": 2})

	res, ok := st.LastToolResult("search_hotels")
	if !ok {
		t.Fatal("expected a result")
	}
	if res["total_count"] != 2 {
		t.Fatalf("expected most recent result, got %v", res)
	}
}
