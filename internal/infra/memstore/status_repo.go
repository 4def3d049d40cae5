// File: internal/infra/memstore/status_repo.go
package memstore

import (
	"context"
	"sync"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/domain/ports/repository"
)

var _ repository.StatusRepository = (*StatusRepo)(nil)

// StatusRepo is the in-memory status backend: one map behind a mutex.
// Single-process semantics are intentional; the production alternative is
// the redis backend.
type StatusRepo struct {
	mu      sync.RWMutex
	records map[string]model.StatusRecord
}

func NewStatusRepo() *StatusRepo {
	return &StatusRepo{records: make(map[string]model.StatusRecord)}
}

func (r *StatusRepo) Save(_ context.Context, rec *model.StatusRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.SessionID] = *rec
	return nil
}

func (r *StatusRepo) Find(_ context.Context, sessionID string) (*model.StatusRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := rec
	return &cp, nil
}

func (r *StatusRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, sessionID)
	return nil
}

// Len reports the number of live records. Used by tests to verify lazy
// eviction.
func (r *StatusRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
