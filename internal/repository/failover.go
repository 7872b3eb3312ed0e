package repository

import (
	"context"
	"sync/atomic"
	"time"

	"londonpark/internal/domain"
	"londonpark/internal/models"

	"github.com/rs/zerolog"
)

// FailoverConfirmationRepository prefers the primary store and falls back
// to the secondary when the primary errors, probing for recovery after a
// minute.
type FailoverConfirmationRepository struct {
	primary   domain.ConfirmationRepository
	fallback  domain.ConfirmationRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverConfirmationRepository(primary, fallback domain.ConfirmationRepository, logger *zerolog.Logger) *FailoverConfirmationRepository {
	return &FailoverConfirmationRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverConfirmationRepository) Put(ctx context.Context, pending *models.PendingDelete) error {
	if !r.isDown.Load() {
		err := r.primary.Put(ctx, pending)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary confirmation store failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.Put(ctx, pending)
}

func (r *FailoverConfirmationRepository) Get(ctx context.Context, token string) (*models.PendingDelete, error) {
	if !r.isDown.Load() {
		pending, err := r.primary.Get(ctx, token)
		if err == nil {
			return pending, nil
		}
		r.logger.Error().Err(err).Msg("Primary confirmation store failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		pending, err := r.primary.Get(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return pending, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.Get(ctx, token)
}

func (r *FailoverConfirmationRepository) Delete(ctx context.Context, token string) error {
	if !r.isDown.Load() {
		err := r.primary.Delete(ctx, token)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary confirmation store failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.Delete(ctx, token)
}
