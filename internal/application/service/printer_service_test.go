package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pharmacy-api/pkg/printer"
	"github.com/sangkips/pharmacy-api/pkg/storage"
)

// recordingPrinter keeps every job it is given
type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Close() error                     { return nil }

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		BusinessInfo: testBusiness(),
		BillNumber:   "BILL-123456",
		Date:         "01/03/2024",
		PatientName:  "Ravi",
		DoctorName:   "Self",
		Items: []entity.ReceiptItem{
			{Particulars: "Paracetamol 500", Qty: 3, BatchNumber: "PCM-01", ExpiryDate: "2026-12-31", Rate: 100, Amount: 336, GSTAmount: 12},
		},
		TotalAmount: 336,
		PaymentMode: "CASH",
	}
}

func TestFormatReceiptContents(t *testing.T) {
	out := string(FormatReceipt(sampleReceipt(), printer.Width58mm))
	for _, want := range []string{
		"Sri Sai Pharmacy",
		"DL No: DL-123",
		"GSTIN: 36ABCDE1234F1Z5",
		"BILL-123456",
		"Paracetamol 500",
		"B:PCM-01 E:2026-12-31 @100.00",
		"336.00",
		"Payment:",
		"Get well soon!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("receipt missing %q", want)
		}
	}
	if !bytes.HasSuffix([]byte(out), []byte{printer.GS, 'V', 0x01}) {
		t.Error("receipt should end with a cut")
	}
}

func TestPrintBillReturnsReceiptOnPrinterError(t *testing.T) {
	ctx := context.Background()
	medicines := memory.NewMedicineRepository()
	records := memory.NewDispenseRecordRepository()
	id := seedMedicine(t, medicines, "Paracetamol 500", 5, 10000, 1200)
	dispense := newDispenseFixture(medicines, records)
	result, err := dispense.Dispense(ctx, &DispenseInput{
		Lines:       []DispenseLineInput{{MedicineID: id, Quantity: 3}},
		PatientName: "Ravi",
	})
	if err != nil {
		t.Fatal(err)
	}

	offline := &recordingPrinter{err: errors.New("paper out")}
	svc := NewPrinterService(dispense, offline, printer.TypeUSB, 0, nil)
	receipt, err := svc.PrintBill(ctx, result.BillNumber)
	if err == nil || receipt == nil || receipt.TotalAmount != 336 {
		t.Fatalf("receipt=%+v err=%v", receipt, err)
	}

	online := &recordingPrinter{}
	svc = NewPrinterService(dispense, online, printer.TypeUSB, printer.Width80mm, nil)
	if _, err := svc.PrintBill(ctx, result.BillNumber); err != nil {
		t.Fatal(err)
	}
	if len(online.jobs) != 1 {
		t.Fatalf("jobs = %d", len(online.jobs))
	}

	status := svc.GetStatus(ctx)
	if !status.Configured || !status.Connected || status.PaperWidth != printer.Width80mm {
		t.Errorf("status = %+v", status)
	}
}

func TestBillPDFArchives(t *testing.T) {
	ctx := context.Background()
	medicines := memory.NewMedicineRepository()
	id := seedMedicine(t, medicines, "Dolo 650", 5, 3000, 360)
	dispense := newDispenseFixture(medicines, memory.NewDispenseRecordRepository())
	result, err := dispense.Dispense(ctx, &DispenseInput{
		Lines:       []DispenseLineInput{{MedicineID: id, Quantity: 1}},
		PatientName: "Farah",
		PaymentMode: "UPI",
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	svc := NewPrinterService(dispense, nil, printer.TypeNone, 0, storage.NewLocalStore(dir))
	data, err := svc.BillPDF(ctx, result.BillNumber)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("not a PDF: %q", data[:8])
	}
	if _, err := os.Stat(filepath.Join(dir, "bills", result.BillNumber+".pdf")); err != nil {
		t.Errorf("pdf not archived: %v", err)
	}
	if svc.GetStatus(ctx).Configured {
		t.Error("none printer should not report configured")
	}
}
