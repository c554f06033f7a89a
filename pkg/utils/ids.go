package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BillNumberPrefix starts every bill number
const BillNumberPrefix = "BILL-"

// NewBillNumber derives a bill number from the last six digits of the
// millisecond clock. Two bills issued in the same millisecond, or exactly
// 1000 seconds apart, collide.
func NewBillNumber(now time.Time) string {
	return fmt.Sprintf("%s%06d", BillNumberPrefix, now.UnixMilli()%1_000_000)
}

// NewRequestID generates an ID for correlating log lines
func NewRequestID() string {
	return uuid.NewString()
}
