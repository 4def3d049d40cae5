package adapter

import "context"

// TriggerRequest carries the workflow form fields forwarded to the
// ingestion webhook.
type TriggerRequest struct {
	CompanyURL      string
	ProductCategory string
	SessionID       string
	Knowledgebase   string // optional free text
}

// WorkflowAdapter triggers the long-running ingestion workflow.
type WorkflowAdapter interface {
	Trigger(ctx context.Context, req TriggerRequest) error
}

// AgentAdapter relays one chat turn to the AI agent webhook. The reply is
// decoded JSON of no fixed shape (string, object, anything); normalization
// is the caller's job.
type AgentAdapter interface {
	Ask(ctx context.Context, sessionID, message string) (any, error)
}
