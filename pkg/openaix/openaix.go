// Package openaix adapts the OpenAI SDK to the core LLM client contract.
package openaix

import (
	"context"
	"errors"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type Client struct {
	sdk   openaisdk.Client
	model string
}

var _ contractx.LLMClient = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		sdk:   openaisdk.NewClient(opts...),
		model: strings.TrimSpace(cfg.Model),
	}, nil
}

func (c *Client) Complete(ctx context.Context, messages []contractx.Message, opts contractx.CompleteOptions) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Messages:    toChatMessages(messages),
		Temperature: openaisdk.Float(float64(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(opts.MaxTokens))
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", contractx.NewLLMError(contractx.LLMErrTimeout, "openai completion timed out: %v", err)
		}
		return "", contractx.NewLLMError(contractx.LLMErrProviderError, "openai completion: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", contractx.NewLLMError(contractx.LLMErrMalformedResponse, "openai returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", contractx.NewLLMError(contractx.LLMErrMalformedResponse, "openai returned empty content")
	}
	return content, nil
}

func toChatMessages(messages []contractx.Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case contractx.RoleSystem:
			out = append(out, openaisdk.SystemMessage(m.Content))
		case contractx.RoleAssistant:
			out = append(out, openaisdk.AssistantMessage(m.Content))
		default:
			out = append(out, openaisdk.UserMessage(m.Content))
		}
	}
	return out
}
