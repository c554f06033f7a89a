package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MedicineStatus represents the stock status of a medicine
type MedicineStatus string

const (
	MedicineStatusAvailable  MedicineStatus = "available"
	MedicineStatusOutOfStock MedicineStatus = "out_of_stock"
	MedicineStatusCompleted  MedicineStatus = "completed"
)

// ParseMedicineStatus returns an error for anything other than the three known statuses
func ParseMedicineStatus(s string) (MedicineStatus, error) {
	switch MedicineStatus(s) {
	case MedicineStatusAvailable, MedicineStatusOutOfStock, MedicineStatusCompleted:
		return MedicineStatus(s), nil
	}
	return "", fmt.Errorf("invalid medicine status %q", s)
}

// StatusForQuantity is the status a dispense leaves behind
func StatusForQuantity(quantity int) MedicineStatus {
	if quantity <= 0 {
		return MedicineStatusOutOfStock
	}
	return MedicineStatusAvailable
}

func (s MedicineStatus) String() string {
	return string(s)
}

func (s MedicineStatus) IsValid() bool {
	_, err := ParseMedicineStatus(string(s))
	return err == nil
}

func (s *MedicineStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseMedicineStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s MedicineStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *MedicineStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = MedicineStatusAvailable
	case string:
		*s = MedicineStatus(v)
	case []byte:
		*s = MedicineStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into MedicineStatus", value)
	}
	return nil
}
