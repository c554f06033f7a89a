package repository

import (
	"context"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses keyed by client and key
type IdempotencyRepository interface {
	// GetByKey returns (nil, nil) when the key has not been seen for this client
	GetByKey(ctx context.Context, key, clientID string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys that expired before now
	DeleteExpired(ctx context.Context, now time.Time) error
}
