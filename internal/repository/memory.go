package repository

import (
	"context"
	"sync"
	"time"

	"londonpark/internal/models"
)

type memoryEntry struct {
	pending   *models.PendingDelete
	expiresAt time.Time
}

// MemoryConfirmationRepository keeps pending delete confirmations in
// process. Used standalone in tests and as the failover fallback.
type MemoryConfirmationRepository struct {
	entries sync.Map
	ttl     time.Duration
}

func NewMemoryConfirmationRepository(ttl time.Duration) *MemoryConfirmationRepository {
	return &MemoryConfirmationRepository{
		ttl: ttl,
	}
}

func (r *MemoryConfirmationRepository) Put(ctx context.Context, pending *models.PendingDelete) error {
	r.entries.Store(pending.Token, &memoryEntry{
		pending:   pending,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryConfirmationRepository) Get(ctx context.Context, token string) (*models.PendingDelete, error) {
	val, ok := r.entries.Load(token)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.entries.Delete(token)
		return nil, nil
	}
	return entry.pending, nil
}

func (r *MemoryConfirmationRepository) Delete(ctx context.Context, token string) error {
	r.entries.Delete(token)
	return nil
}
