package repository

import (
	"context"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
)

// DispenseRecordRepository is the append-only dispensing history
type DispenseRecordRepository interface {
	Create(ctx context.Context, record *entity.DispenseRecord) error
	// ListByDateRange returns records with start <= dispensedDate <= end
	ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.DispenseRecord, error)
	// ListWithCursor returns up to Limit+1 records, newest first, strictly after the cursor
	ListWithCursor(ctx context.Context, params *pagination.CursorParams) ([]entity.DispenseRecord, error)
	Count(ctx context.Context) (int64, error)
	// ListByBillNumber returns the lines of one dispensing event ordered by line number
	ListByBillNumber(ctx context.Context, billNumber string) ([]entity.DispenseRecord, error)
}
