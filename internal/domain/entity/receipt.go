package entity

// BusinessInfo is the pharmacy header printed at the top of a receipt.
type BusinessInfo struct {
	Name    string `json:"name" mapstructure:"name"`
	Address string `json:"address,omitempty" mapstructure:"address"`
	DLNo    string `json:"dl_no,omitempty" mapstructure:"dl_no"`
	GSTIN   string `json:"gstin,omitempty" mapstructure:"gstin"`
	Phone1  string `json:"phone1,omitempty" mapstructure:"phone1"`
	Phone2  string `json:"phone2,omitempty" mapstructure:"phone2"`
}

// ReceiptItem is one dispensed line as printed.
type ReceiptItem struct {
	Particulars string  `json:"particulars"`
	Qty         int     `json:"qty"`
	BatchNumber string  `json:"batch_number"`
	ExpiryDate  string  `json:"expiry_date"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	GSTAmount   float64 `json:"gst_amount"`
}

// Receipt is a value object handed to renderers.
// It is not persisted: it is rebuilt from dispense records on demand.
type Receipt struct {
	BusinessInfo BusinessInfo  `json:"business_info"`
	BillNumber   string        `json:"bill_number"`
	Date         string        `json:"date"`
	PatientName  string        `json:"patient_name"`
	DoctorName   string        `json:"doctor_name"`
	Items        []ReceiptItem `json:"items"`
	TotalAmount  float64       `json:"total_amount"`
	PaymentMode  string        `json:"payment_mode"`
}
