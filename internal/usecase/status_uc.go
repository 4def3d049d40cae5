// File: internal/usecase/status_uc.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/domain/ports/repository"
)

// Compile-time check
var _ StatusUseCase = (*statusUC)(nil)

// StatusUseCase owns the most recent completion status per session id, with
// a fixed TTL. Eviction is lazy: a record is purged only when a Get finds it
// past its TTL. Ids that are never polled again are not reclaimed, which is
// acceptable for a short-lived process with a bounded id population.
type StatusUseCase interface {
	// Set stores the status for sessionID. Empty status defaults to
	// "completed"; nil completed defaults to true.
	Set(ctx context.Context, sessionID, status string, completed *bool) error
	// Get returns the stored record, the pending sentinel for unknown ids,
	// or the expired sentinel (purging the record) once its age reaches the
	// TTL.
	Get(ctx context.Context, sessionID string) (model.StatusResult, error)
}

type statusUC struct {
	repo repository.StatusRepository
	ttl  time.Duration
	now  func() time.Time

	// Serializes the TTL check against the delete so two concurrent Gets
	// (or a Get racing a Set) cannot interleave between them.
	mu sync.Mutex
}

func NewStatusUseCase(repo repository.StatusRepository, ttl time.Duration, now func() time.Time) *statusUC {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &statusUC{repo: repo, ttl: ttl, now: now}
}

func (s *statusUC) Set(ctx context.Context, sessionID, status string, completed *bool) error {
	if sessionID == "" {
		return domain.ErrSessionRequired
	}
	if status == "" {
		status = model.StatusCompleted
	}
	done := true
	if completed != nil {
		done = *completed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Save(ctx, &model.StatusRecord{
		SessionID: sessionID,
		Status:    status,
		Completed: done,
		Timestamp: s.now(),
	})
}

func (s *statusUC) Get(ctx context.Context, sessionID string) (model.StatusResult, error) {
	if sessionID == "" {
		return model.StatusResult{}, domain.ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.repo.Find(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return model.PendingResult(), nil
	}
	if err != nil {
		return model.StatusResult{}, err
	}

	if s.now().Sub(rec.Timestamp) >= s.ttl {
		if err := s.repo.Delete(ctx, sessionID); err != nil {
			return model.StatusResult{}, err
		}
		return model.ExpiredResult(), nil
	}

	return model.StatusResult{
		Status:    rec.Status,
		Completed: rec.Completed,
		Timestamp: rec.Timestamp.UnixMilli(),
	}, nil
}
