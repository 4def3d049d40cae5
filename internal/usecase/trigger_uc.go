// File: internal/usecase/trigger_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/domain/ports/adapter"
)

// Compile-time check
var _ TriggerUseCase = (*triggerUC)(nil)

// TriggerUseCase starts the ingestion workflow for a company and hands back
// the session ids the caller should poll under.
type TriggerUseCase interface {
	Trigger(ctx context.Context, companyURL, productCategory, knowledgebase string) (model.Session, error)
}

type triggerUC struct {
	workflow adapter.WorkflowAdapter
	now      func() time.Time
}

func NewTriggerUseCase(workflow adapter.WorkflowAdapter, now func() time.Time) *triggerUC {
	if now == nil {
		now = time.Now
	}
	return &triggerUC{workflow: workflow, now: now}
}

func (t *triggerUC) Trigger(ctx context.Context, companyURL, productCategory, knowledgebase string) (model.Session, error) {
	companyURL = strings.TrimSpace(companyURL)
	productCategory = strings.TrimSpace(productCategory)
	if companyURL == "" || productCategory == "" {
		return model.Session{}, domain.ErrInvalidArgument
	}

	sess := model.NewSession(companyURL, t.now())
	err := t.workflow.Trigger(ctx, adapter.TriggerRequest{
		CompanyURL:      companyURL,
		ProductCategory: productCategory,
		SessionID:       sess.ID,
		Knowledgebase:   strings.TrimSpace(knowledgebase),
	})
	if err != nil {
		return model.Session{}, err
	}
	return sess, nil
}
