// Package agent is the HTTP client for the upstream agent orchestration
// service. Generation is streamed over the `data: `-framed protocol in
// internal/stream; a small one-shot completion call backs title suggestion.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mlee0412/frok-server/internal/stream"
)

// TurnRequest is the payload for one streamed generation turn.
type TurnRequest struct {
	InputAsText  string   `json:"input_as_text"`
	Images       []string `json:"images,omitempty"`
	Model        string   `json:"model,omitempty"`
	EnabledTools []string `json:"enabled_tools,omitempty"`
	ThreadID     string   `json:"thread_id"`
}

// CompletionRequest is the payload for a one-shot, non-streamed completion.
type CompletionRequest struct {
	InputAsText string `json:"input_as_text"`
	Model       string `json:"model,omitempty"`
}

// Provider defines the interface for the upstream agent service.
type Provider interface {
	// StreamTurn runs one generation turn, forwarding each decoded event
	// to emit as it arrives and returning the folded stream state once
	// the byte stream is exhausted, the turn fails fatally, or ctx is
	// canceled (in which case the context error is returned).
	StreamTurn(ctx context.Context, req *TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error)

	// Complete runs a one-shot completion and returns the output text.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

type httpProvider struct {
	client *http.Client
	url    string
}

// NewHTTPProvider returns a Provider talking to the agent service at url.
// The client carries no timeout of its own: streamed turns are bounded by
// the caller's context.
func NewHTTPProvider(url string) Provider {
	return &httpProvider{
		client: &http.Client{},
		url:    url,
	}
}

func (p *httpProvider) StreamTurn(ctx context.Context, req *TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal turn request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/agent/smart-stream", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("agent returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return stream.Consume(ctx, resp.Body, emit)
}

func (p *httpProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("could not marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/agent/complete", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("agent returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out struct {
		Output string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("could not decode completion response: %w", err)
	}
	return out.Output, nil
}
