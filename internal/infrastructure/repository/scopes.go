package repository

import (
	"strings"
	"time"

	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
	"gorm.io/gorm"
)

// MedicineFilter returns a GORM scope applying status and search filters
func MedicineFilter(params *domainRepo.MedicineFilterParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		if params.Status != nil {
			db = db.Where("status = ?", string(*params.Status))
		}
		if search := strings.TrimSpace(params.Search); search != "" {
			like := "%" + escapeLike(search) + "%"
			db = db.Where("name ILIKE ? OR batch_number ILIKE ?", like, like)
		}
		return db
	}
}

// DispensedBetween limits records to an inclusive dispensed_date range
func DispensedBetween(start, end time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("dispensed_date >= ? AND dispensed_date <= ?", start, end)
	}
}

// AfterCursor resumes a newest-first listing strictly after the cursor
func AfterCursor(cursor *pagination.Cursor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cursor == nil {
			return db
		}
		return db.Where("(dispensed_date, id) < (?, ?)", cursor.At, cursor.ID)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
