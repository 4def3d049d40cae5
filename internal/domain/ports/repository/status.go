package repository

import (
	"context"

	"marketing-automation/internal/domain/model"
)

// StatusRepository is the keyed record store backing the parsing-status
// endpoint. Implementations are dumb key-value access; TTL arithmetic and
// the pending/expired sentinels live in the use case so every backend
// behaves identically.
type StatusRepository interface {
	// Save stores or overwrites the record for rec.SessionID.
	Save(ctx context.Context, rec *model.StatusRecord) error
	// Find returns the stored record or domain.ErrNotFound.
	Find(ctx context.Context, sessionID string) (*model.StatusRecord, error)
	// Delete removes the record; deleting a missing id is not an error.
	Delete(ctx context.Context, sessionID string) error
}
