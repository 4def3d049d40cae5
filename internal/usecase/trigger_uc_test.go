package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/ports/adapter"
)

type fakeWorkflow struct {
	last adapter.TriggerRequest
	err  error
}

func (f *fakeWorkflow) Trigger(ctx context.Context, req adapter.TriggerRequest) error {
	f.last = req
	return f.err
}

func TestTriggerDerivesSessionAndForwardsForm(t *testing.T) {
	wf := &fakeWorkflow{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := NewTriggerUseCase(wf, func() time.Time { return now })

	sess, err := uc.Trigger(context.Background(), "https://www.acme.io/products", "CRM software", " kb text ")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	if sess.Company != "acme" {
		t.Fatalf("company = %q", sess.Company)
	}
	if !strings.HasPrefix(sess.ID, "acme_") || sess.FallbackID != "acme" {
		t.Fatalf("session = %+v", sess)
	}
	if wf.last.SessionID != sess.ID {
		t.Fatalf("workflow saw sessionId %q, want %q", wf.last.SessionID, sess.ID)
	}
	if wf.last.CompanyURL != "https://www.acme.io/products" || wf.last.ProductCategory != "CRM software" {
		t.Fatalf("form fields not forwarded: %+v", wf.last)
	}
	if wf.last.Knowledgebase != "kb text" {
		t.Fatalf("knowledge base = %q", wf.last.Knowledgebase)
	}
}

func TestTriggerRequiresURLAndCategory(t *testing.T) {
	uc := NewTriggerUseCase(&fakeWorkflow{}, nil)

	if _, err := uc.Trigger(context.Background(), "", "cat", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := uc.Trigger(context.Background(), "https://acme.io", "  ", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestTriggerPropagatesUpstreamError(t *testing.T) {
	wf := &fakeWorkflow{err: &adapter.UpstreamError{Status: 500, Body: "boom"}}
	uc := NewTriggerUseCase(wf, nil)

	_, err := uc.Trigger(context.Background(), "https://acme.io", "cat", "")
	var upstream *adapter.UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != 500 {
		t.Fatalf("err = %v, want the upstream error", err)
	}
}
