package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"gorm.io/gorm"
)

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a PostgreSQL-backed medicine repository
func NewMedicineRepository(db *gorm.DB) domainRepo.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) (string, error) {
	if err := r.db.WithContext(ctx).Create(medicine).Error; err != nil {
		return "", wrapStoreErr("create medicine", err)
	}
	return medicine.ID, nil
}

func (r *medicineRepository) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get medicine", err)
	}
	return &medicine, nil
}

func (r *medicineRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Medicine, error) {
	if len(ids) == 0 {
		return []entity.Medicine{}, nil
	}
	var medicines []entity.Medicine
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&medicines).Error
	return medicines, wrapStoreErr("get medicines", err)
}

func (r *medicineRepository) Update(ctx context.Context, id string, update entity.MedicineUpdate) error {
	cols := update.Columns()
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.Medicine{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return wrapStoreErr("update medicine", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Medicine")
	}
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Medicine{}, "id = ?", id)
	if result.Error != nil {
		return wrapStoreErr("delete medicine", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Medicine")
	}
	return nil
}

func (r *medicineRepository) List(ctx context.Context, params *domainRepo.MedicineFilterParams) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := r.db.WithContext(ctx).
		Scopes(MedicineFilter(params)).
		Order("name ASC, id ASC").
		Find(&medicines).Error
	return medicines, wrapStoreErr("list medicines", err)
}
