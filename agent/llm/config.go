package llm

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
	anthropicx "github.com/tanpawarit/hotel-assistant/pkg/anthropicx"
	configx "github.com/tanpawarit/hotel-assistant/pkg/config"
	openaix "github.com/tanpawarit/hotel-assistant/pkg/openaix"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config is the single vendor switch, read once at process start.
// Per-call sampling options derive from Temperature and MaxTokens;
// MaxAgentIterations caps pipeline length as a runaway guard.
type Config struct {
	Provider           Provider `envconfig:"LLM_PROVIDER" split_words:"true" default:"openai"`
	Temperature        float32  `envconfig:"AGENT_TEMPERATURE" split_words:"true" default:"0.7"`
	MaxTokens          int      `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	MaxAgentIterations int      `envconfig:"MAX_AGENT_ITERATIONS" split_words:"true" default:"10"`
}

func (c Config) Validate() error {
	switch c.normalizedProvider() {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.Provider)
	}
	if c.MaxAgentIterations <= 0 {
		return fmt.Errorf("max agent iterations must be > 0, got %d", c.MaxAgentIterations)
	}
	return nil
}

func (c Config) normalizedProvider() Provider {
	return Provider(strings.ToLower(strings.TrimSpace(string(c.Provider))))
}

// Options returns the per-call sampling options the agents use.
func (c Config) Options() contractx.CompleteOptions {
	return contractx.CompleteOptions{
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// NewClient builds the vendor client selected by the config. Vendor env
// blocks (OPENAI_*, ANTHROPIC_*) carry the API key and model name.
func NewClient(cfg Config) (contractx.LLMClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.normalizedProvider() {
	case ProviderOpenAI:
		vendorCfg, err := configx.New[openaix.Config]("OPENAI")
		if err != nil {
			return nil, fmt.Errorf("load openai config: %w", err)
		}
		return openaix.NewClient(*vendorCfg)
	case ProviderAnthropic:
		vendorCfg, err := configx.New[anthropicx.Config]("ANTHROPIC")
		if err != nil {
			return nil, fmt.Errorf("load anthropic config: %w", err)
		}
		return anthropicx.NewClient(*vendorCfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}
