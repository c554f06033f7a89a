package repository

import (
	"context"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
)

// MedicineRepository is the inventory store.
//
// Every method may fail with *apperror.StoreUnavailableError when the backing
// store cannot be reached. Each call is atomic for a single medicine only.
type MedicineRepository interface {
	// Create stores the medicine, assigns its ID and returns it
	Create(ctx context.Context, medicine *entity.Medicine) (string, error)
	// GetByID returns (nil, nil) when no medicine has that ID
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	// GetByIDs returns the medicines found; missing IDs are simply absent
	GetByIDs(ctx context.Context, ids []string) ([]entity.Medicine, error)
	// Update applies a partial update. Returns a not-found AppError for an unknown ID.
	Update(ctx context.Context, id string, update entity.MedicineUpdate) error
	// Delete returns a not-found AppError for an unknown ID
	Delete(ctx context.Context, id string) error
	// List returns medicines ordered by name ascending
	List(ctx context.Context, filter *MedicineFilterParams) ([]entity.Medicine, error)
}

// MedicineFilterParams narrows a medicine listing
type MedicineFilterParams struct {
	Status *enum.MedicineStatus
	// Search matches name or batch number, case-insensitively
	Search string
}
