package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/storage"
	"github.com/xuri/excelize/v2"
)

func TestExportStockReadsBack(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMedicineRepository()
	seedMedicine(t, repo, "Paracetamol 500", 5, 10000, 1200)
	seedMedicine(t, repo, "Amoxicillin 250", 8, 6000, 720)

	dir := t.TempDir()
	svc := NewReportService(repo, NewMedicineService(repo, NewMedicineValidator()), storage.NewLocalStore(dir), time.UTC)
	svc.now = func() time.Time { return fixedNow }

	report, err := svc.ExportStock(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Filename != "stock-20240301-103000.xlsx" {
		t.Errorf("filename = %s", report.Filename)
	}
	if _, err := os.Stat(filepath.Join(dir, "reports", report.Filename)); err != nil {
		t.Errorf("report not archived: %v", err)
	}

	rows, rowErrors, err := ParseMedicineSheet(bytes.NewReader(report.Data))
	if err != nil {
		t.Fatal(err)
	}
	if len(rowErrors) != 0 || len(rows) != 2 {
		t.Fatalf("rows=%+v errors=%+v", rows, rowErrors)
	}
	first := rows[0]
	if first.Name != "Amoxicillin 250" || first.Quantity != 8 || first.ExpiryDate != "2026-12-31" {
		t.Errorf("first row = %+v", first)
	}
	if !first.Price.Equal(first.Price.Truncate(0)) || first.Price.IntPart() != 60 || first.GSTPercentage.IntPart() != 12 {
		t.Errorf("first row pricing = %s / %s", first.Price, first.GSTPercentage)
	}

	f, err := excelize.OpenReader(bytes.NewReader(report.Data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	// 5×112 + 8×67.20
	if v, _ := f.GetCellValue(stockSheet, "I5"); v != "1097.6" {
		t.Errorf("stock value = %q", v)
	}
}

func TestImportStockCollectsRowErrors(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Medicine Name", "Batch No", "Qty", "Expiry", "Rate", "GST %"},
		{"Dolo 650", "D-01", 10, "31/01/2026", 30, 12},
		{"Zinc", "Z-01", "two", "2026-01-31", 5, 0},
		{},
		{"Cough Syrup", "", 4, "2026-01-31", 80, 12},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	repo := memory.NewMedicineRepository()
	svc := NewReportService(repo, NewMedicineService(repo, NewMedicineValidator()), nil, time.UTC)
	result, err := svc.ImportStock(context.Background(), buf)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalRows != 3 || result.Successful != 1 || result.Failed != 2 {
		t.Fatalf("got %+v", result)
	}
	if len(result.Errors) != 2 || result.Errors[0].Row != 3 || result.Errors[0].Field != "quantity" ||
		result.Errors[1].Row != 5 || result.Errors[1].Field != "batch_number" {
		t.Errorf("errors = %+v", result.Errors)
	}

	stored, _ := repo.List(context.Background(), nil)
	if len(stored) != 1 || stored[0].ExpiryDate != "2026-01-31" || stored[0].TotalAmount != 3360 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestParseMedicineSheetRejectsBadFiles(t *testing.T) {
	if _, _, err := ParseMedicineSheet(strings.NewReader("name,qty\n")); apperror.GetAppError(err).Code != 400 {
		t.Errorf("csv upload: %v", err)
	}

	f := excelize.NewFile()
	_ = f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Batch", "Qty"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]interface{}{"B1", 3})
	buf, _ := f.WriteToBuffer()
	if _, _, err := ParseMedicineSheet(buf); apperror.GetAppError(err).Code != 400 {
		t.Errorf("missing name column: %v", err)
	}
}

func TestNormaliseExpiry(t *testing.T) {
	tests := map[string]string{
		"2026-12-31": "2026-12-31",
		"31/12/2026": "2026-12-31",
		"31-12-2026": "2026-12-31",
		"46022":      "2025-12-31",
		"soon":       "soon",
	}
	for in, want := range tests {
		if got := normaliseExpiry(in); got != want {
			t.Errorf("normaliseExpiry(%q) = %q, want %q", in, got, want)
		}
	}
}
