package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
)

func TestMedicineListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicineRepository()
	for _, m := range []entity.Medicine{
		{Name: "Paracetamol", BatchNumber: "PCM-01", Status: enum.MedicineStatusAvailable},
		{Name: "Amoxicillin", BatchNumber: "AMX-77", Status: enum.MedicineStatusOutOfStock},
		{Name: "Cetirizine", BatchNumber: "pcm-02", Status: enum.MedicineStatusAvailable},
	} {
		m := m
		if _, err := repo.Create(ctx, &m); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := repo.List(ctx, nil)
	if len(all) != 3 || all[0].Name != "Amoxicillin" || all[2].Name != "Paracetamol" {
		t.Fatalf("unexpected order: %+v", all)
	}

	found, _ := repo.List(ctx, &domainRepo.MedicineFilterParams{Search: "PCM"})
	if len(found) != 2 {
		t.Fatalf("search by batch: got %d", len(found))
	}

	out := enum.MedicineStatusOutOfStock
	found, _ = repo.List(ctx, &domainRepo.MedicineFilterParams{Status: &out})
	if len(found) != 1 || found[0].Name != "Amoxicillin" {
		t.Fatalf("status filter: %+v", found)
	}
}

func TestMedicineUpdateAndDeleteUnknown(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicineRepository()
	qty := 4
	err := repo.Update(ctx, "missing", entity.MedicineUpdate{Quantity: &qty})
	if appErr := apperror.GetAppError(err); appErr.Code != 404 {
		t.Fatalf("update unknown: %v", err)
	}
	if appErr := apperror.GetAppError(repo.Delete(ctx, "missing")); appErr.Code != 404 {
		t.Fatalf("delete unknown: %v", appErr)
	}
	m, err := repo.GetByID(ctx, "missing")
	if m != nil || err != nil {
		t.Fatalf("GetByID unknown = %v, %v", m, err)
	}
}

func TestCancelledContextIsStoreUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMedicineRepository().GetByID(ctx, "x")
	if !apperror.IsStoreUnavailable(err) {
		t.Fatalf("got %v", err)
	}
}

func TestDispenseRecordCursorWalk(t *testing.T) {
	ctx := context.Background()
	repo := NewDispenseRecordRepository()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := entity.DispenseRecord{BillNumber: "BILL-1", LineNo: i, DispensedDate: base.Add(time.Duration(i/2) * time.Hour)}
		if err := repo.Create(ctx, &rec); err != nil {
			t.Fatal(err)
		}
	}

	var seen []string
	params := &pagination.CursorParams{Limit: 2}
	for {
		items, err := repo.ListWithCursor(ctx, params)
		if err != nil {
			t.Fatal(err)
		}
		total, _ := repo.Count(ctx)
		page := pagination.NewCursorPaginatedResult(items, params.Limit, total, func(r entity.DispenseRecord) (string, time.Time) {
			return r.ID, r.DispensedDate
		})
		for _, r := range page.Items {
			seen = append(seen, r.ID)
		}
		if !page.Pagination.HasNext {
			break
		}
		params = &pagination.CursorParams{Limit: 2, Cursor: *page.Pagination.NextCursor}
	}

	want := []string{"rec-0000000005", "rec-0000000004", "rec-0000000003", "rec-0000000002", "rec-0000000001"}
	if len(seen) != len(want) {
		t.Fatalf("got %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s (all %v)", i, seen[i], want[i], seen)
		}
	}
}

func TestListByDateRangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewDispenseRecordRepository()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	for _, at := range []time.Time{start.Add(-time.Millisecond), start, end, end.Add(time.Millisecond)} {
		rec := entity.DispenseRecord{DispensedDate: at}
		_ = repo.Create(ctx, &rec)
	}
	got, _ := repo.ListByDateRange(ctx, start, end)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
}
