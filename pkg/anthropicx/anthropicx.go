// Package anthropicx adapts the Anthropic SDK to the core LLM client contract.
package anthropicx

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

// The Anthropic API requires an explicit completion budget.
const defaultMaxTokens = 1024

type Config struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"claude-sonnet-4-20250514"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type Client struct {
	sdk   *anthropic.Client
	model string
}

var _ contractx.LLMClient = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		sdk:   anthropic.NewClient(opts...),
		model: strings.TrimSpace(cfg.Model),
	}, nil
}

func (c *Client) Complete(ctx context.Context, messages []contractx.Message, opts contractx.CompleteOptions) (string, error) {
	system, history := splitSystem(messages)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(c.model)),
		MaxTokens:   anthropic.Int(int64(maxTokens)),
		Messages:    anthropic.F(history),
		Temperature: anthropic.Float(float64(opts.Temperature)),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{anthropic.NewTextBlock(system)})
	}

	resp, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", contractx.NewLLMError(contractx.LLMErrTimeout, "anthropic completion timed out: %v", err)
		}
		return "", contractx.NewLLMError(contractx.LLMErrProviderError, "anthropic completion: %v", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsUnion().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", contractx.NewLLMError(contractx.LLMErrMalformedResponse, "anthropic returned no text content")
	}
	return content, nil
}

// splitSystem lifts system-role messages into the dedicated system field and
// converts the rest into turn messages.
func splitSystem(messages []contractx.Message) (string, []anthropic.MessageParam) {
	var system []string
	history := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case contractx.RoleSystem:
			system = append(system, m.Content)
		case contractx.RoleAssistant:
			history = append(history, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			history = append(history, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return strings.Join(system, "\n\n"), history
}
