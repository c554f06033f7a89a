package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// MedicineService handles inventory operations
type MedicineService struct {
	medicineRepo repository.MedicineRepository
	validator    *MedicineValidator
}

// NewMedicineService creates a new medicine service
func NewMedicineService(medicineRepo repository.MedicineRepository, validator *MedicineValidator) *MedicineService {
	return &MedicineService{
		medicineRepo: medicineRepo,
		validator:    validator,
	}
}

// PricingInput is the price tuple as typed by the operator, plus the field edited last
type PricingInput struct {
	Price         decimal.Decimal
	GSTPercentage decimal.Decimal
	GSTAmount     decimal.Decimal
	Changed       pricing.Field
}

func (p PricingInput) resolve() pricing.Hundredths {
	changed := p.Changed
	if changed == "" {
		changed = pricing.FieldPrice
	}
	b := pricing.Recalculate(pricing.Breakdown{
		Price:         p.Price,
		GSTPercentage: p.GSTPercentage,
		GSTAmount:     p.GSTAmount,
		TotalAmount:   p.Price.Add(p.GSTAmount),
	}, changed)
	return b.Hundredths()
}

// CalculatePricing recomputes the dependent price fields without touching the store
func (s *MedicineService) CalculatePricing(input PricingInput) (pricing.Breakdown, error) {
	typed := pricing.Hundredths{
		Price:         pricing.ToHundredths(input.Price),
		GSTPercentage: pricing.ToHundredths(input.GSTPercentage),
		GSTAmount:     pricing.ToHundredths(input.GSTAmount),
	}
	if err := s.validator.CheckPricing(typed); err != nil {
		return pricing.Breakdown{}, err
	}
	return input.resolve().Decimal(), nil
}

// CreateMedicineInput represents the create medicine input
type CreateMedicineInput struct {
	Name        string
	BatchNumber string
	HSNCode     string
	Quantity    int
	ExpiryDate  string
	Pricing     PricingInput
	Status      *enum.MedicineStatus
}

// CreateMedicine validates and stores a new medicine
func (s *MedicineService) CreateMedicine(ctx context.Context, input *CreateMedicineInput) (*entity.Medicine, error) {
	medicine := &entity.Medicine{
		Name:        strings.TrimSpace(input.Name),
		BatchNumber: strings.TrimSpace(input.BatchNumber),
		HSNCode:     strings.TrimSpace(input.HSNCode),
		Quantity:    input.Quantity,
		ExpiryDate:  strings.TrimSpace(input.ExpiryDate),
		Status:      enum.MedicineStatusAvailable,
	}
	medicine.SetPricing(input.Pricing.resolve())
	if input.Status != nil {
		medicine.Status = *input.Status
	}

	if err := s.validator.Check(medicine); err != nil {
		return nil, err
	}

	if _, err := s.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, err
	}
	return medicine, nil
}

// GetMedicine returns a medicine or a not-found error
func (s *MedicineService) GetMedicine(ctx context.Context, id string) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	return medicine, nil
}

// ListMedicines returns the inventory ordered by name
func (s *MedicineService) ListMedicines(ctx context.Context, params *repository.MedicineFilterParams) ([]entity.Medicine, error) {
	return s.medicineRepo.List(ctx, params)
}

// UpdateMedicineInput is a partial edit. Nil fields keep their stored value.
type UpdateMedicineInput struct {
	ID            string
	Name          *string
	BatchNumber   *string
	HSNCode       *string
	Quantity      *int
	ExpiryDate    *string
	Price         *decimal.Decimal
	GSTPercentage *decimal.Decimal
	GSTAmount     *decimal.Decimal
	// PricingChanged names the price field edited last; it decides which
	// fields are derived when more than one is sent.
	PricingChanged pricing.Field
	Status         *enum.MedicineStatus
}

func (in *UpdateMedicineInput) touchesPricing() bool {
	return in.Price != nil || in.GSTPercentage != nil || in.GSTAmount != nil
}

// UpdateMedicine applies an edit. The merged record is re-validated, and the
// status is stored as given: a direct quantity edit does not derive it.
func (s *MedicineService) UpdateMedicine(ctx context.Context, input *UpdateMedicineInput) (*entity.Medicine, error) {
	medicine, err := s.GetMedicine(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	update := entity.MedicineUpdate{
		Name:        trimmed(input.Name),
		BatchNumber: trimmed(input.BatchNumber),
		HSNCode:     trimmed(input.HSNCode),
		Quantity:    input.Quantity,
		ExpiryDate:  trimmed(input.ExpiryDate),
		Status:      input.Status,
	}

	if input.touchesPricing() {
		current := medicine.Pricing().Decimal()
		p := PricingInput{
			Price:         current.Price,
			GSTPercentage: current.GSTPercentage,
			GSTAmount:     current.GSTAmount,
			Changed:       input.PricingChanged,
		}
		if input.Price != nil {
			p.Price = *input.Price
		}
		if input.GSTPercentage != nil {
			p.GSTPercentage = *input.GSTPercentage
		}
		if input.GSTAmount != nil {
			p.GSTAmount = *input.GSTAmount
		}
		if p.Changed == "" {
			p.Changed = inferChanged(input)
		}
		h := p.resolve()
		update.Price = &h.Price
		update.GSTPercentage = &h.GSTPercentage
		update.GSTAmount = &h.GSTAmount
		update.TotalAmount = &h.TotalAmount
	}

	if update.IsEmpty() {
		return medicine, nil
	}

	update.Apply(medicine)
	if err := s.validator.Check(medicine); err != nil {
		return nil, err
	}

	if err := s.medicineRepo.Update(ctx, input.ID, update); err != nil {
		return nil, err
	}
	return s.GetMedicine(ctx, input.ID)
}

// inferChanged picks the derivation when the caller did not say which field moved
func inferChanged(in *UpdateMedicineInput) pricing.Field {
	if in.GSTAmount != nil && in.GSTPercentage == nil {
		return pricing.FieldGSTAmount
	}
	if in.GSTPercentage != nil {
		return pricing.FieldGSTPercentage
	}
	return pricing.FieldPrice
}

// UpdateStatus sets the status by hand, for example to mark a batch completed
func (s *MedicineService) UpdateStatus(ctx context.Context, id string, status enum.MedicineStatus) (*entity.Medicine, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "status",
			Code:    CodeRequired,
			Message: fmt.Sprintf("Status must be one of %s, %s, %s", enum.MedicineStatusAvailable, enum.MedicineStatusOutOfStock, enum.MedicineStatusCompleted),
		}})
	}
	if err := s.medicineRepo.Update(ctx, id, entity.MedicineUpdate{Status: &status}); err != nil {
		return nil, err
	}
	return s.GetMedicine(ctx, id)
}

// DeleteMedicine removes a medicine. Dispense records that reference it are kept.
func (s *MedicineService) DeleteMedicine(ctx context.Context, id string) error {
	return s.medicineRepo.Delete(ctx, id)
}

// ImportMedicineRow represents a single row from an import spreadsheet
type ImportMedicineRow struct {
	Row           int // sheet row number, 0 when unknown
	Name          string
	BatchNumber   string
	HSNCode       string
	Quantity      int
	ExpiryDate    string
	Price         decimal.Decimal
	GSTPercentage decimal.Decimal
}

// ImportRowError represents an error on a specific import row
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarises an import run
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportMedicines validates each row and stores the valid ones. Rows are
// independent: one bad row does not stop the others.
func (s *MedicineService) ImportMedicines(ctx context.Context, rows []ImportMedicineRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}

	for i, row := range rows {
		rowNum := row.Row
		if rowNum == 0 {
			rowNum = i + 2 // row 1 is the header
		}

		medicine := &entity.Medicine{
			Name:        strings.TrimSpace(row.Name),
			BatchNumber: strings.TrimSpace(row.BatchNumber),
			HSNCode:     strings.TrimSpace(row.HSNCode),
			Quantity:    row.Quantity,
			ExpiryDate:  strings.TrimSpace(row.ExpiryDate),
			Status:      enum.MedicineStatusAvailable,
		}
		medicine.SetPricing(PricingInput{Price: row.Price, GSTPercentage: row.GSTPercentage, Changed: pricing.FieldPrice}.resolve())

		if fieldErrors := s.validator.Validate(medicine); len(fieldErrors) > 0 {
			for _, fe := range fieldErrors {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: fe.Field, Message: fe.Message})
			}
			result.Failed++
			continue
		}

		if _, err := s.medicineRepo.Create(ctx, medicine); err != nil {
			if apperror.IsStoreUnavailable(err) {
				return nil, err
			}
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "medicine", Message: err.Error()})
			result.Failed++
			continue
		}
		result.Successful++
	}

	return result, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
