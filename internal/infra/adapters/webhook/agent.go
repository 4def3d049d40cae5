// File: internal/infra/adapters/webhook/agent.go
package webhook

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

	"marketing-automation/internal/domain/ports/adapter"
	"marketing-automation/internal/infra/metrics"
)

var _ adapter.AgentAdapter = (*AgentWebhook)(nil)

// AgentWebhook relays chat turns to the n8n AI-agent webhook. The reply body
// is JSON of no fixed shape and is returned decoded but otherwise untouched.
type AgentWebhook struct {
	url    string
	client *http.Client
}

func NewAgentWebhook(webhookURL string, timeout time.Duration) (*AgentWebhook, error) {
	if webhookURL == "" {
		return nil, errors.New("chat webhook url empty")
	}
	if _, err := url.Parse(webhookURL); err != nil {
		return nil, fmt.Errorf("invalid chat webhook url: %w", err)
	}
	return &AgentWebhook{
		url:    webhookURL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (a *AgentWebhook) Ask(ctx context.Context, sessionID, message string) (any, error) {
	payload, _ := json.Marshal(map[string]string{
		"message":   message,
		"sessionId": sessionID,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	metrics.ObserveWebhookLatency("chat", err == nil, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncChatFailure("network")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncChatFailure("upstream")
		return nil, &adapter.UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		// Some agent nodes answer with bare text.
		return string(body), nil
	}
	return decoded, nil
}
