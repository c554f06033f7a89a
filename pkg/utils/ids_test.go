package utils

import (
	"testing"
	"time"
)

func TestNewBillNumber(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{1718000123456, "BILL-123456"},
		{1718000000042, "BILL-000042"},
		{999, "BILL-000999"},
	}
	for _, tt := range tests {
		if got := NewBillNumber(time.UnixMilli(tt.ms)); got != tt.want {
			t.Errorf("NewBillNumber(%d) = %s, want %s", tt.ms, got, tt.want)
		}
	}
}
