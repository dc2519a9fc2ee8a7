package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

const maxRemoteResponseBytes = 2 << 20

// RemoteProvider forwards tool calls as JSON over HTTP to a configured
// endpoint and translates every failure, transport or domain, into a
// *ToolError so callers never branch on the variant.
type RemoteProvider struct {
	category   Category
	baseURL    string
	httpClient *http.Client
}

type remoteCallRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type remoteCallResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

func NewRemoteProvider(category Category, baseURL string, timeout time.Duration) (*RemoteProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote tool url is required for category %s", category)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote tool url: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RemoteProvider{
		category: category,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (p *RemoteProvider) Call(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	body, err := json.Marshal(remoteCallRequest{Tool: tool, Args: args})
	if err != nil {
		return nil, contractx.NewToolError(contractx.ToolErrMalformedResponse, tool,
			"marshal call request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		return nil, contractx.NewToolError(contractx.ToolErrUnreachable, tool, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, contractx.NewToolError(contractx.ToolErrTimeout, tool, "call timed out: %v", err)
		}
		return nil, contractx.NewToolError(contractx.ToolErrUnreachable, tool, "call failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteResponseBytes))
	if err != nil {
		return nil, contractx.NewToolError(contractx.ToolErrUnreachable, tool, "read response: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return nil, contractx.NewToolError(contractx.ToolErrTimeout, tool,
			"remote status=%d", resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, tool,
			"remote status=%d body=%s", resp.StatusCode, truncate(raw))
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, contractx.NewToolError(contractx.ToolErrUnreachable, tool,
			"remote status=%d body=%s", resp.StatusCode, truncate(raw))
	}

	var parsed remoteCallResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, contractx.NewToolError(contractx.ToolErrMalformedResponse, tool,
			"decode response: %v", err)
	}
	if !parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = "remote tool rejected the call"
		}
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, tool, "%s", msg)
	}

	result := map[string]any{}
	if len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, &result); err != nil {
			return nil, contractx.NewToolError(contractx.ToolErrMalformedResponse, tool,
				"decode result: %v", err)
		}
	}
	result["success"] = true
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Timeout()
	}
	return false
}

func truncate(raw []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
