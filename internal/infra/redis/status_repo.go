package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/domain/ports/repository"
)

var _ repository.StatusRepository = (*StatusRepo)(nil)

// StatusRepo stores status records in Redis. The record's own timestamp
// drives the pending/expired semantics in the use case; the key expiration
// here is only garbage collection for ids that are never polled again, so
// it is set well past the logical TTL.
type StatusRepo struct {
	client RedisClient
	keyTTL time.Duration
}

func NewStatusRepo(client RedisClient, logicalTTL time.Duration) *StatusRepo {
	return &StatusRepo{client: client, keyTTL: 2 * logicalTTL}
}

func (r *StatusRepo) key(sessionID string) string {
	return "parsing_status:" + sessionID
}

func (r *StatusRepo) Save(ctx context.Context, rec *model.StatusRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(rec.SessionID), data, r.keyTTL)
}

func (r *StatusRepo) Find(ctx context.Context, sessionID string) (*model.StatusRecord, error) {
	data, err := r.client.Get(ctx, r.key(sessionID))
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec model.StatusRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *StatusRepo) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID))
}
