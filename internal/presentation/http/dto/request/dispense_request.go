package request

// DispenseLineRequest is one medicine on the order
type DispenseLineRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// DispenseRequest represents a dispensing order
type DispenseRequest struct {
	Lines       []DispenseLineRequest `json:"lines"`
	PatientName string                `json:"patient_name"`
	PatientID   string                `json:"patient_id"`
	DoctorName  string                `json:"doctor_name"`
	DispensedBy string                `json:"dispensed_by"`
	PaymentMode string                `json:"payment_mode"`
	Print       bool                  `json:"print"`
}

// DispenseHistoryRequest pages through dispensing history
type DispenseHistoryRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
}

// AnalyticsRequest selects the reporting window
type AnalyticsRequest struct {
	Range     string `form:"range"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
