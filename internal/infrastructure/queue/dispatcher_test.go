package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identware/user-service/internal/core/domain"
)

type memoryAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *memoryAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memoryAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestAuditDispatcher_PersistsEvents(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEvent{
			Type:      domain.AuditLoginFailed,
			Email:     "alice@example.com",
			Reason:    "wrong_password",
			Timestamp: time.Now().UTC(),
		})
	}

	deadline := time.After(2 * time.Second)
	for repo.count() < 10 {
		select {
		case <-deadline:
			t.Fatalf("expected 10 persisted events, got %d", repo.count())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAuditDispatcher_ShardIsStable(t *testing.T) {
	d := NewAuditDispatcher(4, &memoryAuditRepo{}, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index changed: %d vs %d", first, got)
		}
	}
}

func TestNewAuditDispatcher_DefaultWorkers(t *testing.T) {
	d := NewAuditDispatcher(0, &memoryAuditRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
