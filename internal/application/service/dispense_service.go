package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
	"github.com/sangkips/pharmacy-api/pkg/utils"
)

const defaultDispensedBy = "Staff"

// DispenseService records dispensing events and deducts stock.
//
// Lines are committed one at a time: the record is appended first, then the
// medicine is re-read and its quantity written back. There is no version
// check on that write, so two operators dispensing the same medicine at the
// same moment can lose one of the decrements.
type DispenseService struct {
	medicineRepo repository.MedicineRepository
	recordRepo   repository.DispenseRecordRepository
	business     entity.BusinessInfo
	location     *time.Location
	now          func() time.Time
}

// NewDispenseService creates a new dispensing service
func NewDispenseService(
	medicineRepo repository.MedicineRepository,
	recordRepo repository.DispenseRecordRepository,
	business entity.BusinessInfo,
	location *time.Location,
) *DispenseService {
	if location == nil {
		location = time.Local
	}
	return &DispenseService{
		medicineRepo: medicineRepo,
		recordRepo:   recordRepo,
		business:     business,
		location:     location,
		now:          time.Now,
	}
}

// WithClock replaces the clock used for bill numbers and timestamps
func (s *DispenseService) WithClock(now func() time.Time) *DispenseService {
	s.now = now
	return s
}

// DispenseLineInput is one requested medicine
type DispenseLineInput struct {
	MedicineID string
	Quantity   int
}

// DispenseInput is an order: its lines plus the metadata copied onto every record
type DispenseInput struct {
	Lines       []DispenseLineInput
	PatientName string
	PatientID   string
	DoctorName  string
	DispensedBy string
	PaymentMode string
}

// DispenseResult is what a successful dispense returns
type DispenseResult struct {
	BillNumber   string                  `json:"bill_number"`
	Records      []entity.DispenseRecord `json:"records"`
	ReceiptTotal int64                   `json:"-"`
	Receipt      *entity.Receipt         `json:"receipt"`
}

// validatedOrder is an order that passed every precondition
type validatedOrder struct {
	mode      enum.PaymentMode
	medicines map[string]*entity.Medicine
}

// Dispense validates the whole order, then commits it line by line.
//
// Nothing is written if validation fails. If a write fails before anything was
// committed the store error is returned as is; after that a
// *apperror.PartialDispenseError reports the state of every line.
func (s *DispenseService) Dispense(ctx context.Context, input *DispenseInput) (*DispenseResult, error) {
	order, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	billNumber := utils.NewBillNumber(now)
	dispensedBy := strings.TrimSpace(input.DispensedBy)
	if dispensedBy == "" {
		dispensedBy = defaultDispensedBy
	}
	var patientID *string
	if id := strings.TrimSpace(input.PatientID); id != "" {
		patientID = &id
	}

	records := make([]entity.DispenseRecord, 0, len(input.Lines))
	outcomes := make([]apperror.LineOutcome, len(input.Lines))
	var receiptTotal int64
	var failure error

	for i, line := range input.Lines {
		outcomes[i] = apperror.LineOutcome{Line: i, MedicineID: line.MedicineID}
		if failure != nil {
			outcomes[i].Error = "not attempted"
			continue
		}

		medicine := order.medicines[line.MedicineID]
		lineTotal := pricing.LineTotal(line.Quantity, medicine.Price, medicine.GSTAmount)
		if order.mode.IsZeroCharge() {
			lineTotal = 0
		}

		record := entity.DispenseRecord{
			MedicineID:    medicine.ID,
			MedicineName:  medicine.Name,
			BatchNumber:   medicine.BatchNumber,
			ExpiryDate:    medicine.ExpiryDate,
			Quantity:      line.Quantity,
			Price:         medicine.Price,
			GSTAmount:     medicine.GSTAmount,
			GSTPercentage: medicine.GSTPercentage,
			TotalAmount:   lineTotal,
			DispensedDate: now.UTC(),
			BillNumber:    billNumber,
			LineNo:        i,
			PatientName:   strings.TrimSpace(input.PatientName),
			PatientID:     patientID,
			DoctorName:    strings.TrimSpace(input.DoctorName),
			DispensedBy:   dispensedBy,
			PaymentMode:   order.mode,
		}
		if err := s.recordRepo.Create(ctx, &record); err != nil {
			outcomes[i].Error = err.Error()
			failure = err
			continue
		}
		outcomes[i].RecordWritten = true
		records = append(records, record)
		receiptTotal += lineTotal

		if err := s.deductStock(ctx, line.MedicineID, line.Quantity); err != nil {
			outcomes[i].Error = err.Error()
			failure = err
			continue
		}
		outcomes[i].StockUpdated = true
	}

	if failure != nil {
		committed := false
		for _, o := range outcomes {
			if o.Committed() {
				committed = true
				break
			}
		}
		if !committed {
			return nil, failure
		}
		log.Printf("Dispense %s partially failed: %v", billNumber, failure)
		return nil, &apperror.PartialDispenseError{BillNumber: billNumber, Lines: outcomes}
	}

	if order.mode.IsZeroCharge() {
		receiptTotal = 0
	}

	return &DispenseResult{
		BillNumber:   billNumber,
		Records:      records,
		ReceiptTotal: receiptTotal,
		Receipt:      BuildReceipt(s.business, records, s.location),
	}, nil
}

// deductStock re-reads the medicine and writes back the reduced quantity and derived status
func (s *DispenseService) deductStock(ctx context.Context, medicineID string, quantity int) error {
	current, err := s.medicineRepo.GetByID(ctx, medicineID)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.NewNotFoundError("Medicine")
	}

	remaining := current.Quantity - quantity
	status := enum.StatusForQuantity(remaining)
	return s.medicineRepo.Update(ctx, medicineID, entity.MedicineUpdate{
		Quantity: &remaining,
		Status:   &status,
	})
}

func (s *DispenseService) validate(ctx context.Context, input *DispenseInput) (*validatedOrder, error) {
	var fieldErrors []apperror.FieldError

	if len(input.Lines) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "lines", Code: CodeRequired, Message: "At least one medicine is required"})
	}
	if strings.TrimSpace(input.PatientName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "patient_name", Code: CodeRequired, Message: "Patient name is required"})
	}

	mode := enum.DefaultPaymentMode
	if strings.TrimSpace(input.PaymentMode) != "" {
		parsed, err := enum.ParsePaymentMode(input.PaymentMode)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_mode", Code: "invalid_payment_mode", Message: err.Error()})
		}
		mode = parsed
	}

	ids := make([]string, 0, len(input.Lines))
	for i, line := range input.Lines {
		if strings.TrimSpace(line.MedicineID) == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("lines[%d].medicine_id", i), Code: CodeRequired, Message: "Medicine is required"})
		}
		if line.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("lines[%d].quantity", i), Code: CodeMustBePositive, Message: "Quantity must be greater than 0"})
		}
		ids = append(ids, line.MedicineID)
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	found, err := s.medicineRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	medicines := make(map[string]*entity.Medicine, len(found))
	for i := range found {
		medicines[found[i].ID] = &found[i]
	}

	requested := map[string]int{}
	for _, line := range input.Lines {
		if _, ok := medicines[line.MedicineID]; !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Medicine %s", line.MedicineID))
		}
		requested[line.MedicineID] += line.Quantity
	}

	for i, line := range input.Lines {
		m := medicines[line.MedicineID]
		if total := requested[line.MedicineID]; total > m.Quantity {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("lines[%d].quantity", i),
				Code:    "insufficient_stock",
				Message: fmt.Sprintf("Only %d units of %s available, %d requested", m.Quantity, m.Name, total),
			})
		}
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	return &validatedOrder{mode: mode, medicines: medicines}, nil
}

// ListRecords returns dispensing history, newest first
func (s *DispenseService) ListRecords(ctx context.Context, params *pagination.CursorParams) (*pagination.CursorPaginatedResult[entity.DispenseRecord], error) {
	params.Validate()
	records, err := s.recordRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}
	total, err := s.recordRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return pagination.NewCursorPaginatedResult(records, params.Limit, total, func(r entity.DispenseRecord) (string, time.Time) {
		return r.ID, r.DispensedDate
	}), nil
}

// GetBill returns every line recorded under a bill number
func (s *DispenseService) GetBill(ctx context.Context, billNumber string) ([]entity.DispenseRecord, error) {
	records, err := s.recordRepo.ListByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return records, nil
}

// GetReceipt rebuilds the receipt for a past bill
func (s *DispenseService) GetReceipt(ctx context.Context, billNumber string) (*entity.Receipt, error) {
	records, err := s.GetBill(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	return BuildReceipt(s.business, records, s.location), nil
}
