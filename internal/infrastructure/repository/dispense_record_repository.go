package repository

import (
	"context"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
	"gorm.io/gorm"
)

type dispenseRecordRepository struct {
	db *gorm.DB
}

// NewDispenseRecordRepository creates a PostgreSQL-backed dispensing history
func NewDispenseRecordRepository(db *gorm.DB) domainRepo.DispenseRecordRepository {
	return &dispenseRecordRepository{db: db}
}

func (r *dispenseRecordRepository) Create(ctx context.Context, record *entity.DispenseRecord) error {
	return wrapStoreErr("create dispense record", r.db.WithContext(ctx).Create(record).Error)
}

func (r *dispenseRecordRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.DispenseRecord, error) {
	var records []entity.DispenseRecord
	err := r.db.WithContext(ctx).
		Scopes(DispensedBetween(start, end)).
		Order("dispensed_date ASC, line_no ASC").
		Find(&records).Error
	return records, wrapStoreErr("list dispense records by date", err)
}

func (r *dispenseRecordRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams) ([]entity.DispenseRecord, error) {
	params.Validate()
	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	var records []entity.DispenseRecord
	err = r.db.WithContext(ctx).
		Scopes(AfterCursor(cursor)).
		Order("dispensed_date DESC, id DESC").
		Limit(params.Limit + 1).
		Find(&records).Error
	return records, wrapStoreErr("list dispense records", err)
}

func (r *dispenseRecordRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.DispenseRecord{}).Count(&total).Error
	return total, wrapStoreErr("count dispense records", err)
}

func (r *dispenseRecordRepository) ListByBillNumber(ctx context.Context, billNumber string) ([]entity.DispenseRecord, error) {
	var records []entity.DispenseRecord
	err := r.db.WithContext(ctx).
		Where("bill_number = ?", billNumber).
		Order("dispensed_date ASC, line_no ASC").
		Find(&records).Error
	return records, wrapStoreErr("list bill lines", err)
}
