package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

var (
	ErrNoSteps      = errors.New("pipeline has no steps")
	ErrStepBudget   = errors.New("pipeline exceeds step budget")
	ErrEmptyMessage = errors.New("user message is empty")
)

// StepFunc runs one step against the shared workflow state. Returning an
// error transitions the run to failed and skips all remaining steps.
type StepFunc func(ctx context.Context, st *WorkflowState) error

// Step is a static definition, identical across all runs of an agent.
// Reads and Produces document the state fields a step depends on and
// fills in; correctness is enforced by step ordering, not dynamic checks.
type Step struct {
	Name     string
	Tool     string
	Reads    []string
	Produces []string
	Run      StepFunc
}

// Pipeline executes a fixed ordered list of steps for one agent. Steps
// never run concurrently within a request and there is no branching beyond
// the early exit on error.
type Pipeline struct {
	agent    contractx.AgentType
	steps    []Step
	maxSteps int
}

func New(agent contractx.AgentType, maxSteps int, steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if maxSteps > 0 && len(steps) > maxSteps {
		return nil, fmt.Errorf("%w: %d steps, budget %d", ErrStepBudget, len(steps), maxSteps)
	}
	for i, s := range steps {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("step %d has no name", i)
		}
		if s.Run == nil {
			return nil, fmt.Errorf("step %s has no run func", s.Name)
		}
	}
	return &Pipeline{agent: agent, steps: steps, maxSteps: maxSteps}, nil
}

func (p *Pipeline) Agent() contractx.AgentType {
	return p.agent
}

// StepNames returns the fixed step order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run drives the state machine: each step in order, early exit on the
// first step error or context cancellation. On success FinalResponse is
// expected to have been set by the terminal step.
func (p *Pipeline) Run(ctx context.Context, st *WorkflowState) (contractx.PipelineResult, error) {
	if st == nil || strings.TrimSpace(st.UserMessage) == "" {
		return contractx.PipelineResult{Agent: p.agent}, ErrEmptyMessage
	}

	traces := make([]contractx.StepTrace, 0, len(p.steps))
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return contractx.PipelineResult{Agent: p.agent, Steps: traces}, err
		}

		log.Debug().
			Str("agent", string(p.agent)).
			Str("step", step.Name).
			Msg("pipeline step start")

		if err := step.Run(ctx, st); err != nil {
			st.Err = err
			log.Warn().
				Str("agent", string(p.agent)).
				Str("step", step.Name).
				Err(err).
				Msg("pipeline step failed")
			return contractx.PipelineResult{Agent: p.agent, Steps: traces}, err
		}
		traces = append(traces, contractx.StepTrace{
			Step:    step.Name,
			Tool:    step.Tool,
			Summary: summarizeStep(st, step),
		})
	}

	if strings.TrimSpace(st.FinalResponse) == "" {
		return contractx.PipelineResult{Agent: p.agent, Steps: traces},
			fmt.Errorf("pipeline %s completed without a final response", p.agent)
	}

	return contractx.PipelineResult{
		Agent:    p.agent,
		Response: st.FinalResponse,
		Steps:    traces,
	}, nil
}

func summarizeStep(st *WorkflowState, step Step) string {
	if step.Tool == "" {
		return ""
	}
	res, ok := st.LastToolResult(step.Tool)
	if !ok {
		return ""
	}
	if msg, ok := res["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("%s returned %d fields", step.Tool, len(res))
}
