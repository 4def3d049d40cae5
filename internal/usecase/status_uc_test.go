package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/infra/memstore"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStatusSetThenGetReturnsStoredRecord(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	uc := NewStatusUseCase(memstore.NewStatusRepo(), time.Hour, clock.Now)

	completed := false
	if err := uc.Set(ctx, "acme_1750000000000", "processing", &completed); err != nil {
		t.Fatalf("Set: %v", err)
	}

	res, err := uc.Get(ctx, "acme_1750000000000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Status != "processing" || res.Completed {
		t.Fatalf("got %+v, want status=processing completed=false", res)
	}
	if res.Timestamp != clock.Now().UnixMilli() {
		t.Fatalf("timestamp = %d, want %d", res.Timestamp, clock.Now().UnixMilli())
	}
}

func TestStatusSetDefaults(t *testing.T) {
	ctx := context.Background()
	uc := NewStatusUseCase(memstore.NewStatusRepo(), time.Hour, newFakeClock().Now)

	if err := uc.Set(ctx, "sid", "", nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	res, err := uc.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Status != model.StatusCompleted || !res.Completed {
		t.Fatalf("got %+v, want defaults status=completed completed=true", res)
	}
}

func TestStatusGetUnknownIDReturnsPending(t *testing.T) {
	uc := NewStatusUseCase(memstore.NewStatusRepo(), time.Hour, newFakeClock().Now)

	res, err := uc.Get(context.Background(), "never-set")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Status != model.StatusPending || res.Completed {
		t.Fatalf("got %+v, want pending sentinel", res)
	}
}

func TestStatusGetEmptyIDRejected(t *testing.T) {
	uc := NewStatusUseCase(memstore.NewStatusRepo(), time.Hour, newFakeClock().Now)

	if _, err := uc.Get(context.Background(), ""); !errors.Is(err, domain.ErrSessionRequired) {
		t.Fatalf("Get err = %v, want ErrSessionRequired", err)
	}
	if err := uc.Set(context.Background(), "", "", nil); !errors.Is(err, domain.ErrSessionRequired) {
		t.Fatalf("Set err = %v, want ErrSessionRequired", err)
	}
}

func TestStatusExpiryIsLazyAndPurges(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	repo := memstore.NewStatusRepo()
	uc := NewStatusUseCase(repo, time.Hour, clock.Now)

	if err := uc.Set(ctx, "sid", "", nil); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Just under the TTL the record is still served.
	clock.Advance(time.Hour - time.Second)
	res, err := uc.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Status != model.StatusCompleted {
		t.Fatalf("got %+v before TTL, want stored record", res)
	}

	// At the TTL boundary the record expires and is purged.
	clock.Advance(time.Second)
	res, err = uc.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Status != model.StatusExpired || res.Completed {
		t.Fatalf("got %+v at TTL, want expired sentinel", res)
	}
	if repo.Len() != 0 {
		t.Fatalf("record not purged, store has %d entries", repo.Len())
	}

	// The next lookup sees no record at all.
	res, err = uc.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Status != model.StatusPending {
		t.Fatalf("got %+v after purge, want pending sentinel", res)
	}
}

func TestStatusSetRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	uc := NewStatusUseCase(memstore.NewStatusRepo(), time.Hour, clock.Now)

	if err := uc.Set(ctx, "sid", "first", nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	clock.Advance(59 * time.Minute)
	if err := uc.Set(ctx, "sid", "second", nil); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// The overwrite restarted the TTL window.
	clock.Advance(59 * time.Minute)
	res, err := uc.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Status != "second" {
		t.Fatalf("got %+v, want the refreshed record", res)
	}
}
