package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey remembers the response to a request carrying an Idempotency-Key
// header, so a retried dispense is answered from cache instead of run twice.
type IdempotencyKey struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idem_client_key;size:255;not null"`
	ClientID     string    `gorm:"uniqueIndex:idx_idem_client_key;size:255;not null"` // operator or client IP
	Endpoint     string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64"` // SHA256 of request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the key has expired at the given instant
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
