package mongostore

import (
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MedicinesCollection         = "medicines"
	DispensingRecordsCollection = "dispensingRecords"
	IdempotencyCollection       = "idempotencyKeys"
)

type medicineDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	BatchNumber   string             `bson:"batchNumber"`
	HSNCode       string             `bson:"hsncode,omitempty"`
	Quantity      int                `bson:"quantity"`
	ExpiryDate    string             `bson:"expiryDate"`
	Price         int64              `bson:"price"`
	GSTPercentage int64              `bson:"gstpercentage"`
	GSTAmount     int64              `bson:"gstamount"`
	TotalAmount   int64              `bson:"totalAmount"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// medicineFields maps MedicineUpdate column names to document keys
var medicineFields = map[string]string{
	"name":           "name",
	"batch_number":   "batchNumber",
	"hsn_code":       "hsncode",
	"quantity":       "quantity",
	"expiry_date":    "expiryDate",
	"price":          "price",
	"gst_percentage": "gstpercentage",
	"gst_amount":     "gstamount",
	"total_amount":   "totalAmount",
	"status":         "status",
}

func newMedicineDocument(m *entity.Medicine) medicineDocument {
	return medicineDocument{
		Name:          m.Name,
		BatchNumber:   m.BatchNumber,
		HSNCode:       m.HSNCode,
		Quantity:      m.Quantity,
		ExpiryDate:    m.ExpiryDate,
		Price:         m.Price,
		GSTPercentage: m.GSTPercentage,
		GSTAmount:     m.GSTAmount,
		TotalAmount:   m.TotalAmount,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (d medicineDocument) entity() entity.Medicine {
	return entity.Medicine{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		BatchNumber:   d.BatchNumber,
		HSNCode:       d.HSNCode,
		Quantity:      d.Quantity,
		ExpiryDate:    d.ExpiryDate,
		Price:         d.Price,
		GSTPercentage: d.GSTPercentage,
		GSTAmount:     d.GSTAmount,
		TotalAmount:   d.TotalAmount,
		Status:        enum.MedicineStatus(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type dispenseRecordDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	MedicineID    string             `bson:"medicineId"`
	MedicineName  string             `bson:"medicineName"`
	BatchNumber   string             `bson:"batchNumber"`
	ExpiryDate    string             `bson:"expiryDate,omitempty"`
	Quantity      int                `bson:"quantity"`
	Price         int64              `bson:"price"`
	GSTAmount     int64              `bson:"gstamount"`
	GSTPercentage int64              `bson:"gstpercentage"`
	TotalAmount   int64              `bson:"totalAmount"`
	DispensedDate time.Time          `bson:"dispensedDate"`
	BillNumber    string             `bson:"billNumber"`
	LineNo        int                `bson:"lineNo"`
	PatientName   string             `bson:"patientName"`
	PatientID     *string            `bson:"patientId,omitempty"`
	DoctorName    string             `bson:"doctorName,omitempty"`
	DispensedBy   string             `bson:"dispensedBy"`
	PaymentMode   string             `bson:"paymentMode,omitempty"`
}

func newDispenseRecordDocument(r *entity.DispenseRecord) dispenseRecordDocument {
	return dispenseRecordDocument{
		MedicineID:    r.MedicineID,
		MedicineName:  r.MedicineName,
		BatchNumber:   r.BatchNumber,
		ExpiryDate:    r.ExpiryDate,
		Quantity:      r.Quantity,
		Price:         r.Price,
		GSTAmount:     r.GSTAmount,
		GSTPercentage: r.GSTPercentage,
		TotalAmount:   r.TotalAmount,
		DispensedDate: r.DispensedDate,
		BillNumber:    r.BillNumber,
		LineNo:        r.LineNo,
		PatientName:   r.PatientName,
		PatientID:     r.PatientID,
		DoctorName:    r.DoctorName,
		DispensedBy:   r.DispensedBy,
		PaymentMode:   string(r.PaymentMode),
	}
}

func (d dispenseRecordDocument) entity() entity.DispenseRecord {
	return entity.DispenseRecord{
		ID:            d.ID.Hex(),
		MedicineID:    d.MedicineID,
		MedicineName:  d.MedicineName,
		BatchNumber:   d.BatchNumber,
		ExpiryDate:    d.ExpiryDate,
		Quantity:      d.Quantity,
		Price:         d.Price,
		GSTAmount:     d.GSTAmount,
		GSTPercentage: d.GSTPercentage,
		TotalAmount:   d.TotalAmount,
		DispensedDate: d.DispensedDate,
		BillNumber:    d.BillNumber,
		LineNo:        d.LineNo,
		PatientName:   d.PatientName,
		PatientID:     d.PatientID,
		DoctorName:    d.DoctorName,
		DispensedBy:   d.DispensedBy,
		PaymentMode:   enum.PaymentMode(d.PaymentMode),
	}
}

type idempotencyDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Key          string             `bson:"key"`
	ClientID     string             `bson:"clientId"`
	Endpoint     string             `bson:"endpoint"`
	RequestHash  string             `bson:"requestHash,omitempty"`
	ResponseCode int                `bson:"responseCode"`
	ResponseBody string             `bson:"responseBody"`
	CreatedAt    time.Time          `bson:"createdAt"`
	ExpiresAt    time.Time          `bson:"expiresAt"`
}
