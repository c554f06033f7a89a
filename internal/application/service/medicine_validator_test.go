package service

import (
	"testing"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
)

func validMedicine() *entity.Medicine {
	return &entity.Medicine{
		Name:        "Paracetamol 500",
		BatchNumber: "PCM-2401",
		Quantity:    10,
		ExpiryDate:  "2026-12-31",
		Price:       10000,
	}
}

func TestMedicineValidatorAcceptsValid(t *testing.T) {
	if errs := NewMedicineValidator().Validate(validMedicine()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
}

func TestMedicineValidatorFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *entity.Medicine)
		field   string
		code    string
		message string
	}{
		{"blank name", func(m *entity.Medicine) { m.Name = "   " }, "name", CodeRequired, "Medicine name is required"},
		{"zero quantity", func(m *entity.Medicine) { m.Quantity = 0 }, "quantity", CodeMustBePositive, "Quantity must be greater than 0"},
		{"missing expiry", func(m *entity.Medicine) { m.ExpiryDate = "" }, "expiry_date", CodeRequired, "Expiry date is required"},
		{"bad expiry", func(m *entity.Medicine) { m.ExpiryDate = "2026-02-30" }, "expiry_date", CodeInvalidDate, "Invalid date format"},
		{"slashed expiry", func(m *entity.Medicine) { m.ExpiryDate = "31/12/2026" }, "expiry_date", CodeInvalidDate, "Invalid date format"},
		{"blank batch", func(m *entity.Medicine) { m.BatchNumber = "" }, "batch_number", CodeRequired, "Batch number is required"},
		{"zero price", func(m *entity.Medicine) { m.Price = 0 }, "price", CodeMustBePositive, "Price must be greater than 0"},
		{"negative gst percentage", func(m *entity.Medicine) { m.GSTPercentage = -500 }, "gst_percentage", CodeNotNegative, "GST percentage cannot be negative"},
		{"negative gst amount", func(m *entity.Medicine) { m.GSTAmount = -30 }, "gst_amount", CodeNotNegative, "GST amount cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMedicine()
			tt.mutate(m)
			errs := NewMedicineValidator().Validate(m)
			if len(errs) != 1 {
				t.Fatalf("got %d errors: %+v", len(errs), errs)
			}
			got := errs[0]
			if got.Field != tt.field || got.Code != tt.code || got.Message != tt.message {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestMedicineValidatorCollectsAll(t *testing.T) {
	errs := NewMedicineValidator().Validate(&entity.Medicine{})
	if len(errs) != 5 {
		t.Fatalf("expected all five fields to fail, got %+v", errs)
	}
	err := NewMedicineValidator().Check(&entity.Medicine{})
	if appErr := apperror.GetAppError(err); appErr.Code != 422 || len(appErr.Errors) != 5 {
		t.Fatalf("got %+v", appErr)
	}
}

func TestMedicineValidatorCheckPricing(t *testing.T) {
	mv := NewMedicineValidator()
	if err := mv.CheckPricing(pricing.Hundredths{}); err != nil {
		t.Errorf("zero preview rejected: %v", err)
	}
	err := mv.CheckPricing(pricing.Hundredths{Price: 10000, GSTPercentage: -5000})
	appErr := apperror.GetAppError(err)
	if appErr.Code != 422 || len(appErr.Errors) != 1 || appErr.Errors[0].Field != "gst_percentage" {
		t.Fatalf("got %+v", appErr)
	}
}
