package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"gorm.io/gorm"
)

// DispenseRecord is one line of a dispensing event. It snapshots the medicine
// as it was at dispense time and is never updated afterwards.
type DispenseRecord struct {
	ID            string           `gorm:"type:varchar(64);primaryKey" json:"id"`
	MedicineID    string           `gorm:"type:varchar(64);not null;index" json:"medicine_id"`
	MedicineName  string           `gorm:"size:255;not null" json:"medicine_name"`
	BatchNumber   string           `gorm:"size:100" json:"batch_number"`
	ExpiryDate    string           `gorm:"size:10" json:"expiry_date,omitempty"`
	Quantity      int              `gorm:"not null" json:"quantity"`
	Price         int64            `gorm:"not null" json:"price"`
	GSTAmount     int64            `gorm:"not null;default:0" json:"gst_amount"`
	GSTPercentage int64            `gorm:"not null;default:0" json:"gst_percentage"`
	TotalAmount   int64            `gorm:"not null;default:0" json:"total_amount"`
	DispensedDate time.Time        `gorm:"not null;index" json:"dispensed_date"`
	BillNumber    string           `gorm:"size:50;not null;index" json:"bill_number"`
	LineNo        int              `gorm:"not null;default:0" json:"line_no"`
	PatientName   string           `gorm:"size:255;not null" json:"patient_name"`
	PatientID     *string          `gorm:"size:100" json:"patient_id,omitempty"`
	DoctorName    string           `gorm:"size:255" json:"doctor_name,omitempty"`
	DispensedBy   string           `gorm:"size:255" json:"dispensed_by"`
	PaymentMode   enum.PaymentMode `gorm:"size:30;index" json:"payment_mode"`
}

// BeforeCreate generates an ID before creating a new record
func (r *DispenseRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for the DispenseRecord model
func (DispenseRecord) TableName() string {
	return "dispensing_records"
}

// MarshalJSON renders money fields as decimals
func (r DispenseRecord) MarshalJSON() ([]byte, error) {
	type Alias DispenseRecord
	return json.Marshal(&struct {
		Alias
		Price         float64 `json:"price"`
		GSTAmount     float64 `json:"gst_amount"`
		GSTPercentage float64 `json:"gst_percentage"`
		TotalAmount   float64 `json:"total_amount"`
	}{
		Alias:         Alias(r),
		Price:         toDecimal(r.Price),
		GSTAmount:     toDecimal(r.GSTAmount),
		GSTPercentage: toDecimal(r.GSTPercentage),
		TotalAmount:   toDecimal(r.TotalAmount),
	})
}
