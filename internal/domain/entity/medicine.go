package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"gorm.io/gorm"
)

// ExpiryDateLayout is the calendar-date format used for expiry dates
const ExpiryDateLayout = "2006-01-02"

// Medicine is a stocked item. Money fields are stored in paise and the GST
// rate in hundredths of a percent.
type Medicine struct {
	ID            string              `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name          string              `gorm:"size:255;not null;index" json:"name"`
	BatchNumber   string              `gorm:"size:100;not null" json:"batch_number"`
	HSNCode       string              `gorm:"size:50" json:"hsn_code,omitempty"`
	Quantity      int                 `gorm:"not null;default:0" json:"quantity"`
	ExpiryDate    string              `gorm:"size:10;not null" json:"expiry_date"`
	Price         int64               `gorm:"not null;default:0" json:"price"`
	GSTPercentage int64               `gorm:"not null;default:0" json:"gst_percentage"`
	GSTAmount     int64               `gorm:"not null;default:0" json:"gst_amount"`
	TotalAmount   int64               `gorm:"not null;default:0" json:"total_amount"`
	Status        enum.MedicineStatus `gorm:"size:20;not null;default:'available';index" json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// BeforeCreate generates an ID before creating a new medicine
func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for the Medicine model
func (Medicine) TableName() string {
	return "medicines"
}

// Pricing returns the stored price tuple
func (m *Medicine) Pricing() pricing.Hundredths {
	return pricing.Hundredths{
		Price:         m.Price,
		GSTPercentage: m.GSTPercentage,
		GSTAmount:     m.GSTAmount,
		TotalAmount:   m.TotalAmount,
	}
}

// SetPricing overwrites the four price fields
func (m *Medicine) SetPricing(h pricing.Hundredths) {
	m.Price = h.Price
	m.GSTPercentage = h.GSTPercentage
	m.GSTAmount = h.GSTAmount
	m.TotalAmount = h.TotalAmount
}

// MarshalJSON renders money fields as decimals
func (m Medicine) MarshalJSON() ([]byte, error) {
	type Alias Medicine
	return json.Marshal(&struct {
		Alias
		Price         float64 `json:"price"`
		GSTPercentage float64 `json:"gst_percentage"`
		GSTAmount     float64 `json:"gst_amount"`
		TotalAmount   float64 `json:"total_amount"`
	}{
		Alias:         Alias(m),
		Price:         toDecimal(m.Price),
		GSTPercentage: toDecimal(m.GSTPercentage),
		GSTAmount:     toDecimal(m.GSTAmount),
		TotalAmount:   toDecimal(m.TotalAmount),
	})
}

// MedicineUpdate is a partial update. Nil fields are left untouched.
type MedicineUpdate struct {
	Name          *string
	BatchNumber   *string
	HSNCode       *string
	Quantity      *int
	ExpiryDate    *string
	Price         *int64
	GSTPercentage *int64
	GSTAmount     *int64
	TotalAmount   *int64
	Status        *enum.MedicineStatus
}

// IsEmpty reports whether the update would change nothing
func (u MedicineUpdate) IsEmpty() bool {
	return u.Name == nil && u.BatchNumber == nil && u.HSNCode == nil && u.Quantity == nil &&
		u.ExpiryDate == nil && u.Price == nil && u.GSTPercentage == nil && u.GSTAmount == nil &&
		u.TotalAmount == nil && u.Status == nil
}

// Apply copies the set fields onto m
func (u MedicineUpdate) Apply(m *Medicine) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.BatchNumber != nil {
		m.BatchNumber = *u.BatchNumber
	}
	if u.HSNCode != nil {
		m.HSNCode = *u.HSNCode
	}
	if u.Quantity != nil {
		m.Quantity = *u.Quantity
	}
	if u.ExpiryDate != nil {
		m.ExpiryDate = *u.ExpiryDate
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.GSTPercentage != nil {
		m.GSTPercentage = *u.GSTPercentage
	}
	if u.GSTAmount != nil {
		m.GSTAmount = *u.GSTAmount
	}
	if u.TotalAmount != nil {
		m.TotalAmount = *u.TotalAmount
	}
	if u.Status != nil {
		m.Status = *u.Status
	}
}

// Columns maps the set fields to column names, for stores that update by map
func (u MedicineUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.BatchNumber != nil {
		cols["batch_number"] = *u.BatchNumber
	}
	if u.HSNCode != nil {
		cols["hsn_code"] = *u.HSNCode
	}
	if u.Quantity != nil {
		cols["quantity"] = *u.Quantity
	}
	if u.ExpiryDate != nil {
		cols["expiry_date"] = *u.ExpiryDate
	}
	if u.Price != nil {
		cols["price"] = *u.Price
	}
	if u.GSTPercentage != nil {
		cols["gst_percentage"] = *u.GSTPercentage
	}
	if u.GSTAmount != nil {
		cols["gst_amount"] = *u.GSTAmount
	}
	if u.TotalAmount != nil {
		cols["total_amount"] = *u.TotalAmount
	}
	if u.Status != nil {
		cols["status"] = string(*u.Status)
	}
	return cols
}

func toDecimal(hundredths int64) float64 {
	return pricing.FromHundredths(hundredths).InexactFloat64()
}
