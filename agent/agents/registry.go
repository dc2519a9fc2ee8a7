// Package agents wires the specialized agents into the registry the
// coordinator dispatches through.
package agents

import (
	bookingx "github.com/tanpawarit/hotel-assistant/agent/agents/booking"
	customerx "github.com/tanpawarit/hotel-assistant/agent/agents/customer"
	searchx "github.com/tanpawarit/hotel-assistant/agent/agents/search"
	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
	llmx "github.com/tanpawarit/hotel-assistant/agent/llm"
	toolx "github.com/tanpawarit/hotel-assistant/agent/tool"
)

type registryImpl struct {
	search   contractx.Agent
	booking  contractx.Agent
	customer contractx.Agent
}

func (r *registryImpl) Search() contractx.Agent {
	return r.search
}

func (r *registryImpl) Booking() contractx.Agent {
	return r.booking
}

func (r *registryImpl) Customer() contractx.Agent {
	return r.customer
}

// NewRegistry builds the three specialized agents against one LLM client
// and the per-category tool providers. Each agent binds only the provider
// of its own domain.
func NewRegistry(llm contractx.LLMClient, providers toolx.Providers, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := cfg.Options()

	search, err := searchx.New(llm, providers.Search, opts, cfg.MaxAgentIterations)
	if err != nil {
		return nil, err
	}
	booking, err := bookingx.New(llm, providers.Booking, opts, cfg.MaxAgentIterations)
	if err != nil {
		return nil, err
	}
	customer, err := customerx.New(llm, providers.Customer, opts, cfg.MaxAgentIterations)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		search:   search,
		booking:  booking,
		customer: customer,
	}, nil
}
