// File: internal/infra/adapters/statusapi/client.go
package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/infra/sched"
)

var _ sched.StatusClient = (*Client)(nil)

// Client talks to the backend's own HTTP API. The watch CLI uses it to
// trigger a workflow run and to poll the parsing-status endpoint.
type Client struct {
	base   string
	client *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Status implements sched.StatusClient.
func (c *Client) Status(ctx context.Context, sessionID string) (model.StatusResult, error) {
	endpoint := c.base + "/api/parsing-status?sessionId=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.StatusResult{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return model.StatusResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.StatusResult{}, fmt.Errorf("status lookup returned %d", resp.StatusCode)
	}
	var res model.StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return model.StatusResult{}, err
	}
	return res, nil
}

// TriggerResponse is the server's answer to a workflow trigger.
type TriggerResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	SessionID  string `json:"sessionId"`
	FallbackID string `json:"fallbackId"`
}

// Trigger posts the workflow form through the server's webhook proxy and
// returns the session ids to poll under.
func (c *Client) Trigger(ctx context.Context, companyURL, productCategory, knowledgebase string) (TriggerResponse, error) {
	var body strings.Builder
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("Company URL", companyURL)
	_ = mw.WriteField("Product Category", productCategory)
	if knowledgebase != "" {
		_ = mw.WriteField("Knowledgebase", knowledgebase)
	}
	if err := mw.Close(); err != nil {
		return TriggerResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/webhook", strings.NewReader(body.String()))
	if err != nil {
		return TriggerResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return TriggerResponse{}, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return TriggerResponse{}, fmt.Errorf("trigger returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out TriggerResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return TriggerResponse{}, err
	}
	return out, nil
}
