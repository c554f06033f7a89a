package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, clientID string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND client_id = ?", key, clientID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get idempotency key", err)
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return wrapStoreErr("create idempotency key", r.db.WithContext(ctx).Create(ikey).Error)
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	err := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{}).Error
	return wrapStoreErr("delete expired idempotency keys", err)
}
