package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMedicineDocumentKeys(t *testing.T) {
	m := &entity.Medicine{Name: "Dolo 650", BatchNumber: "D1", Quantity: 3, ExpiryDate: "2026-01-31", Price: 3000, GSTAmount: 360, Status: enum.MedicineStatusAvailable}
	raw, err := bson.Marshal(newMedicineDocument(m))
	if err != nil {
		t.Fatal(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"name", "batchNumber", "expiryDate", "gstamount", "gstpercentage", "totalAmount", "status"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %q in %v", key, doc)
		}
	}
	if _, ok := doc["_id"]; ok {
		t.Error("empty _id should be omitted so the server assigns one")
	}
}

func TestMedicineFieldsCoverEveryUpdateColumn(t *testing.T) {
	name, qty, price := "x", 1, int64(1)
	status := enum.MedicineStatusCompleted
	all := entity.MedicineUpdate{
		Name: &name, BatchNumber: &name, HSNCode: &name, Quantity: &qty, ExpiryDate: &name,
		Price: &price, GSTPercentage: &price, GSTAmount: &price, TotalAmount: &price, Status: &status,
	}
	for col := range all.Columns() {
		if _, ok := medicineFields[col]; !ok {
			t.Errorf("column %q has no document key", col)
		}
	}
}

func TestDispenseRecordDocumentRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	in := &entity.DispenseRecord{MedicineID: "m1", MedicineName: "Dolo", Quantity: 2, Price: 3000, TotalAmount: 6720, DispensedDate: at, BillNumber: "BILL-000001", PaymentMode: enum.PaymentModeUPI}
	raw, err := bson.Marshal(newDispenseRecordDocument(in))
	if err != nil {
		t.Fatal(err)
	}
	var doc dispenseRecordDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	out := doc.entity()
	if out.BillNumber != in.BillNumber || out.PaymentMode != in.PaymentMode || !out.DispensedDate.Equal(at) || out.TotalAmount != 6720 {
		t.Errorf("got %+v", out)
	}
}

func TestWrapStoreErr(t *testing.T) {
	if !apperror.IsStoreUnavailable(wrapStoreErr("find", context.DeadlineExceeded)) {
		t.Error("deadline should be store unavailable")
	}
	plain := errors.New("duplicate key")
	if wrapStoreErr("insert", plain) != plain {
		t.Error("other errors pass through")
	}
	if _, ok := objectID("not-hex"); ok {
		t.Error("non-hex id accepted")
	}
}
