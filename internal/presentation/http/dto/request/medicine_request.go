package request

import (
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Field rules (name, batch, quantity, expiry, price) are checked by the
// medicine validator so they come back as 422 field errors, not binding errors.

// CreateMedicineRequest represents a medicine creation request
type CreateMedicineRequest struct {
	Name          string               `json:"name"`
	BatchNumber   string               `json:"batch_number"`
	HSNCode       string               `json:"hsn_code"`
	Quantity      int                  `json:"quantity"`
	ExpiryDate    string               `json:"expiry_date"`
	Price         decimal.Decimal      `json:"price"`
	GSTPercentage decimal.Decimal      `json:"gst_percentage"`
	GSTAmount     decimal.Decimal      `json:"gst_amount"`
	ChangedField  string               `json:"changed_field"`
	Status        *enum.MedicineStatus `json:"status"`
}

// UpdateMedicineRequest represents a partial medicine update
type UpdateMedicineRequest struct {
	Name          *string              `json:"name"`
	BatchNumber   *string              `json:"batch_number"`
	HSNCode       *string              `json:"hsn_code"`
	Quantity      *int                 `json:"quantity"`
	ExpiryDate    *string              `json:"expiry_date"`
	Price         *decimal.Decimal     `json:"price"`
	GSTPercentage *decimal.Decimal     `json:"gst_percentage"`
	GSTAmount     *decimal.Decimal     `json:"gst_amount"`
	ChangedField  string               `json:"changed_field"`
	Status        *enum.MedicineStatus `json:"status"`
}

// UpdateMedicineStatusRequest sets the status by hand
type UpdateMedicineStatusRequest struct {
	Status enum.MedicineStatus `json:"status" binding:"required"`
}

// PricingRequest asks for a live recalculation while the operator types
type PricingRequest struct {
	Price         decimal.Decimal `json:"price"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	ChangedField  string          `json:"changed_field" binding:"required"`
}

// MedicineFilterRequest represents medicine list filters
type MedicineFilterRequest struct {
	Search string `form:"search"`
	Status string `form:"status"`
}
