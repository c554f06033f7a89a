package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
)

// Field error codes returned by MedicineValidator
const (
	CodeRequired       = "required"
	CodeMustBePositive = "must_be_positive"
	CodeInvalidDate    = "invalid_date"
	CodeNotNegative    = "must_not_be_negative"
)

type medicineRules struct {
	Name        string `json:"name" validate:"notblank"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
	ExpiryDate  string `json:"expiry_date" validate:"notblank,datetime=2006-01-02"`
	BatchNumber string `json:"batch_number" validate:"notblank"`
	Price       int64  `json:"price" validate:"gt=0"`
	GSTPct      int64  `json:"gst_percentage" validate:"gte=0"`
	GSTAmount   int64  `json:"gst_amount" validate:"gte=0"`
}

// pricingRules applies to a live pricing preview, where a zero price is allowed
type pricingRules struct {
	Price     int64 `json:"price" validate:"gte=0"`
	GSTPct    int64 `json:"gst_percentage" validate:"gte=0"`
	GSTAmount int64 `json:"gst_amount" validate:"gte=0"`
}

var medicineMessages = map[string]map[string]string{
	"name":           {CodeRequired: "Medicine name is required"},
	"quantity":       {CodeMustBePositive: "Quantity must be greater than 0"},
	"expiry_date":    {CodeRequired: "Expiry date is required", CodeInvalidDate: "Invalid date format"},
	"batch_number":   {CodeRequired: "Batch number is required"},
	"price":          {CodeMustBePositive: "Price must be greater than 0", CodeNotNegative: "Price cannot be negative"},
	"gst_percentage": {CodeNotNegative: "GST percentage cannot be negative"},
	"gst_amount":     {CodeNotNegative: "GST amount cannot be negative"},
}

// MedicineValidator checks a candidate medicine before it is persisted
type MedicineValidator struct {
	validate *validator.Validate
}

// NewMedicineValidator creates a validator with the medicine rules registered
func NewMedicineValidator() *MedicineValidator {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &MedicineValidator{validate: v}
}

// Validate returns one FieldError per failing field, in declaration order.
// An empty result means the medicine is valid.
func (mv *MedicineValidator) Validate(m *entity.Medicine) []apperror.FieldError {
	return mv.fieldErrors(mv.validate.Struct(medicineRules{
		Name:        m.Name,
		Quantity:    m.Quantity,
		ExpiryDate:  m.ExpiryDate,
		BatchNumber: m.BatchNumber,
		Price:       m.Price,
		GSTPct:      m.GSTPercentage,
		GSTAmount:   m.GSTAmount,
	}))
}

// CheckPricing rejects negative amounts in a price tuple
func (mv *MedicineValidator) CheckPricing(h pricing.Hundredths) error {
	fieldErrors := mv.fieldErrors(mv.validate.Struct(pricingRules{
		Price:     h.Price,
		GSTPct:    h.GSTPercentage,
		GSTAmount: h.GSTAmount,
	}))
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func (mv *MedicineValidator) fieldErrors(err error) []apperror.FieldError {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperror.FieldError{{Field: "medicine", Code: CodeRequired, Message: err.Error()}}
	}

	fieldErrors := make([]apperror.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		code := codeForTag(fe.Tag())
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   fe.Field(),
			Code:    code,
			Message: medicineMessages[fe.Field()][code],
		})
	}
	return fieldErrors
}

// Check wraps Validate into a ValidationError
func (mv *MedicineValidator) Check(m *entity.Medicine) error {
	if fieldErrors := mv.Validate(m); len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func codeForTag(tag string) string {
	switch tag {
	case "gt":
		return CodeMustBePositive
	case "gte":
		return CodeNotNegative
	case "datetime":
		return CodeInvalidDate
	default:
		return CodeRequired
	}
}
