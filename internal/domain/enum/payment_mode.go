package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMode is the settlement category recorded on every dispense line
type PaymentMode string

const (
	PaymentModeCash        PaymentMode = "CASH"
	PaymentModeUPI         PaymentMode = "UPI"
	PaymentModeCashUPI     PaymentMode = "BOTH CASH/UPI"
	PaymentModeArogyaaSree PaymentMode = "AROGYAA SREE"
	PaymentModeECHS        PaymentMode = "ECHS"
	PaymentModeZeroFee     PaymentMode = "ZERO FEE"
)

// DefaultPaymentMode is assumed for records that carry no mode
const DefaultPaymentMode = PaymentModeCash

// PaymentModes lists every accepted mode in display order
var PaymentModes = []PaymentMode{
	PaymentModeCash,
	PaymentModeUPI,
	PaymentModeCashUPI,
	PaymentModeArogyaaSree,
	PaymentModeECHS,
	PaymentModeZeroFee,
}

// ParsePaymentMode matches case-insensitively and ignores surrounding space
func ParsePaymentMode(s string) (PaymentMode, error) {
	norm := PaymentMode(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range PaymentModes {
		if m == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", s)
}

// IsZeroCharge reports whether goods dispensed under this mode are billed at zero
func (m PaymentMode) IsZeroCharge() bool {
	switch m {
	case PaymentModeArogyaaSree, PaymentModeECHS, PaymentModeZeroFee:
		return true
	}
	return false
}

// OrDefault maps the empty mode to DefaultPaymentMode
func (m PaymentMode) OrDefault() PaymentMode {
	if strings.TrimSpace(string(m)) == "" {
		return DefaultPaymentMode
	}
	return m
}

func (m PaymentMode) String() string {
	return string(m)
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*m = ""
		return nil
	}
	parsed, err := ParsePaymentMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = ""
	case string:
		*m = PaymentMode(v)
	case []byte:
		*m = PaymentMode(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentMode", value)
	}
	return nil
}
