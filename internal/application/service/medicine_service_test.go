package service

import (
	"context"
	"testing"

	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func newMedicineFixture() (*MedicineService, *memory.MedicineRepository) {
	repo := memory.NewMedicineRepository()
	return NewMedicineService(repo, NewMedicineValidator()), repo
}

func TestCreateMedicineDerivesPricing(t *testing.T) {
	svc, _ := newMedicineFixture()
	m, err := svc.CreateMedicine(context.Background(), &CreateMedicineInput{
		Name:        " Paracetamol 500 ",
		BatchNumber: "PCM-2401",
		Quantity:    50,
		ExpiryDate:  "2026-12-31",
		Pricing:     PricingInput{Price: decimal.NewFromInt(100), GSTPercentage: decimal.NewFromInt(12)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.ID == "" || m.Name != "Paracetamol 500" || m.Status != enum.MedicineStatusAvailable {
		t.Errorf("got %+v", m)
	}
	if m.Price != 10000 || m.GSTAmount != 1200 || m.TotalAmount != 11200 || m.GSTPercentage != 1200 {
		t.Errorf("pricing = %+v", m.Pricing())
	}
}

func TestCreateMedicineRejectsInvalid(t *testing.T) {
	svc, repo := newMedicineFixture()
	_, err := svc.CreateMedicine(context.Background(), &CreateMedicineInput{Name: "X", ExpiryDate: "2026-13-01"})
	appErr := apperror.GetAppError(err)
	if appErr.Code != 422 || len(appErr.Errors) != 4 {
		t.Fatalf("got %+v", appErr)
	}
	if all, _ := repo.List(context.Background(), nil); len(all) != 0 {
		t.Errorf("nothing should be stored, got %d", len(all))
	}
}

func TestUpdateMedicineGSTAmountDerivesPercentage(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMedicineFixture()
	id := seedMedicine(t, repo, "Cough Syrup", 10, 8000, 960)

	gst := decimal.NewFromInt(4)
	m, err := svc.UpdateMedicine(ctx, &UpdateMedicineInput{ID: id, GSTAmount: &gst})
	if err != nil {
		t.Fatal(err)
	}
	if m.GSTPercentage != 500 || m.TotalAmount != 8400 {
		t.Errorf("pricing = %+v", m.Pricing())
	}

	price := decimal.NewFromInt(90)
	m, err = svc.UpdateMedicine(ctx, &UpdateMedicineInput{ID: id, Price: &price, PricingChanged: pricing.FieldPrice})
	if err != nil {
		t.Fatal(err)
	}
	if m.GSTAmount != 450 || m.TotalAmount != 9450 {
		t.Errorf("pricing after price change = %+v", m.Pricing())
	}
}

func TestNegativeGSTIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMedicineFixture()

	_, err := svc.CreateMedicine(ctx, &CreateMedicineInput{
		Name:        "Antacid Gel",
		BatchNumber: "AG-7",
		Quantity:    5,
		ExpiryDate:  "2026-06-30",
		Pricing:     PricingInput{Price: decimal.NewFromInt(100), GSTPercentage: decimal.NewFromInt(-50)},
	})
	if appErr := apperror.GetAppError(err); appErr.Code != 422 {
		t.Fatalf("create: got %+v", appErr)
	}
	if all, _ := repo.List(ctx, nil); len(all) != 0 {
		t.Fatalf("negative GST medicine was stored")
	}

	id := seedMedicine(t, repo, "Antacid Gel", 5, 10000, 0)
	gst := decimal.NewFromInt(-30)
	_, err = svc.UpdateMedicine(ctx, &UpdateMedicineInput{ID: id, GSTAmount: &gst})
	if appErr := apperror.GetAppError(err); appErr.Code != 422 {
		t.Fatalf("update: got %+v", appErr)
	}
	m, _ := repo.GetByID(ctx, id)
	if m.GSTAmount != 0 || m.GSTPercentage != 1200 || m.TotalAmount != 10000 {
		t.Errorf("stored pricing changed: %+v", m.Pricing())
	}

	if _, err := svc.CalculatePricing(PricingInput{Price: decimal.NewFromInt(80), GSTAmount: decimal.NewFromInt(-4), Changed: pricing.FieldGSTAmount}); err == nil {
		t.Error("preview accepted a negative GST amount")
	}
}

func TestUpdateMedicineKeepsManualStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMedicineFixture()
	id := seedMedicine(t, repo, "Insulin", 2, 45000, 2250)

	out := enum.MedicineStatusOutOfStock
	qty := 20
	m, err := svc.UpdateMedicine(ctx, &UpdateMedicineInput{ID: id, Quantity: &qty, Status: &out})
	if err != nil {
		t.Fatal(err)
	}
	if m.Quantity != 20 || m.Status != enum.MedicineStatusOutOfStock {
		t.Errorf("got %d %s", m.Quantity, m.Status)
	}

	m, err = svc.UpdateStatus(ctx, id, enum.MedicineStatusCompleted)
	if err != nil || m.Status != enum.MedicineStatusCompleted {
		t.Fatalf("UpdateStatus = %+v, %v", m, err)
	}
	if _, err := svc.UpdateStatus(ctx, id, "expired"); apperror.GetAppError(err).Code != 422 {
		t.Errorf("invalid status: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "missing", enum.MedicineStatusAvailable); apperror.GetAppError(err).Code != 404 {
		t.Errorf("unknown id: %v", err)
	}
}

func TestDeleteMedicine(t *testing.T) {
	ctx := context.Background()
	svc, repo := newMedicineFixture()
	id := seedMedicine(t, repo, "Ranitidine", 3, 200, 24)

	if err := svc.DeleteMedicine(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetMedicine(ctx, id); apperror.GetAppError(err).Code != 404 {
		t.Errorf("deleted medicine still found: %v", err)
	}
	if err := svc.DeleteMedicine(ctx, id); apperror.GetAppError(err).Code != 404 {
		t.Errorf("second delete: %v", err)
	}
}

func TestImportMedicinesRowsAreIndependent(t *testing.T) {
	svc, repo := newMedicineFixture()
	result, err := svc.ImportMedicines(context.Background(), []ImportMedicineRow{
		{Name: "Dolo 650", BatchNumber: "D1", Quantity: 10, ExpiryDate: "2026-01-31", Price: decimal.NewFromInt(30), GSTPercentage: decimal.NewFromInt(12)},
		{Name: "", BatchNumber: "D2", Quantity: 10, ExpiryDate: "2026-01-31", Price: decimal.NewFromInt(30)},
		{Row: 9, Name: "Zinc", BatchNumber: "Z1", Quantity: 0, ExpiryDate: "2026-01-31", Price: decimal.NewFromInt(5)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalRows != 3 || result.Successful != 1 || result.Failed != 2 {
		t.Fatalf("got %+v", result)
	}
	if result.Errors[0].Row != 3 || result.Errors[0].Field != "name" || result.Errors[1].Row != 9 {
		t.Errorf("errors = %+v", result.Errors)
	}
	all, _ := repo.List(context.Background(), nil)
	if len(all) != 1 || all[0].TotalAmount != 3360 {
		t.Errorf("stored = %+v", all)
	}
}
