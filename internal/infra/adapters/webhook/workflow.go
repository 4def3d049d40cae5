// File: internal/infra/adapters/webhook/workflow.go
package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketing-automation/internal/domain/ports/adapter"
	"marketing-automation/internal/infra/metrics"
)

var _ adapter.WorkflowAdapter = (*WorkflowWebhook)(nil)

// WorkflowWebhook triggers the n8n ingestion workflow. The workflow expects
// the form fields exactly as the trigger form names them.
type WorkflowWebhook struct {
	url    string
	client *http.Client
}

func NewWorkflowWebhook(webhookURL string, timeout time.Duration) (*WorkflowWebhook, error) {
	if webhookURL == "" {
		return nil, errors.New("trigger webhook url empty")
	}
	if _, err := url.Parse(webhookURL); err != nil {
		return nil, fmt.Errorf("invalid trigger webhook url: %w", err)
	}
	return &WorkflowWebhook{
		url:    webhookURL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (w *WorkflowWebhook) Trigger(ctx context.Context, tr adapter.TriggerRequest) error {
	var body strings.Builder
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"Company URL":      tr.CompanyURL,
		"Product Category": tr.ProductCategory,
		"sessionId":        tr.SessionID,
	}
	if tr.Knowledgebase != "" {
		fields["Knowledgebase"] = tr.Knowledgebase
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, strings.NewReader(body.String()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := w.client.Do(req)
	metrics.ObserveWebhookLatency("trigger", err == nil, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &adapter.UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}
