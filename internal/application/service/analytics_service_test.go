package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
)

func seedRecords(t *testing.T, recs ...entity.DispenseRecord) *memory.DispenseRecordRepository {
	t.Helper()
	repo := memory.NewDispenseRecordRepository()
	for i := range recs {
		if err := repo.Create(context.Background(), &recs[i]); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestAggregateBreakdown(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := seedRecords(t,
		entity.DispenseRecord{TotalAmount: 10000, PaymentMode: enum.PaymentModeCash, DispensedDate: day.Add(9 * time.Hour)},
		entity.DispenseRecord{TotalAmount: 30000, PaymentMode: enum.PaymentModeUPI, DispensedDate: day.Add(10 * time.Hour)},
		entity.DispenseRecord{TotalAmount: 5000, DispensedDate: day.Add(11 * time.Hour)},
		entity.DispenseRecord{TotalAmount: 0, PaymentMode: enum.PaymentModeZeroFee, DispensedDate: day.Add(12 * time.Hour)},
		entity.DispenseRecord{TotalAmount: 0, PaymentMode: enum.PaymentModeECHS, DispensedDate: day.Add(12 * time.Hour)},
		entity.DispenseRecord{TotalAmount: 99900, PaymentMode: enum.PaymentModeCash, DispensedDate: day.AddDate(0, 0, 1)},
	)

	summary, err := NewAnalyticsService(repo, time.UTC).Aggregate(context.Background(), day, day.Add(24*time.Hour-time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalAmount != 45000 || summary.RecordCount != 5 {
		t.Fatalf("total=%d count=%d", summary.TotalAmount, summary.RecordCount)
	}

	want := []PaymentModeTotal{
		{Mode: enum.PaymentModeUPI, Count: 1, Amount: 30000},
		{Mode: enum.PaymentModeCash, Count: 2, Amount: 15000},
		{Mode: enum.PaymentModeECHS, Count: 1, Amount: 0},
		{Mode: enum.PaymentModeZeroFee, Count: 1, Amount: 0},
	}
	if len(summary.Breakdown) != len(want) {
		t.Fatalf("breakdown = %+v", summary.Breakdown)
	}
	var sum int64
	for i, w := range want {
		if summary.Breakdown[i] != w {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, summary.Breakdown[i], w)
		}
		sum += summary.Breakdown[i].Amount
	}
	if sum != summary.TotalAmount {
		t.Errorf("breakdown sums to %d", sum)
	}
}

func TestAggregateEndpointsInclusive(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	repo := seedRecords(t,
		entity.DispenseRecord{TotalAmount: 100, DispensedDate: start},
		entity.DispenseRecord{TotalAmount: 200, DispensedDate: end},
	)
	summary, err := NewAnalyticsService(repo, time.UTC).Aggregate(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if summary.RecordCount != 2 || summary.TotalAmount != 300 {
		t.Errorf("got %+v", summary)
	}
}

func TestAggregateEmptyAndReversed(t *testing.T) {
	svc := NewAnalyticsService(memory.NewDispenseRecordRepository(), time.UTC)
	now := time.Now()
	summary, err := svc.Aggregate(context.Background(), now.Add(-time.Hour), now)
	if err != nil || summary.TotalAmount != 0 || len(summary.Breakdown) != 0 {
		t.Fatalf("empty range: %+v %v", summary, err)
	}
	if _, err := svc.Aggregate(context.Background(), now, now.Add(-time.Hour)); apperror.GetAppError(err).Code != 400 {
		t.Errorf("reversed range: %v", err)
	}
}

func TestResolveRange(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("no tzdata")
	}
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, ist)
	svc := NewAnalyticsService(memory.NewDispenseRecordRepository(), ist).WithClock(func() time.Time { return now })

	tests := []struct {
		r         TimeRange
		startDate string
		endDate   string
		start     time.Time
		end       time.Time
	}{
		{RangeToday, "", "", time.Date(2024, 3, 10, 0, 0, 0, 0, ist), now},
		{RangeWeek, "", "", time.Date(2024, 3, 3, 0, 0, 0, 0, ist), now},
		{RangeMonth, "", "", time.Date(2024, 2, 9, 0, 0, 0, 0, ist), now},
		{RangeCustom, "2024-03-01", "2024-03-05", time.Date(2024, 3, 1, 0, 0, 0, 0, ist), time.Date(2024, 3, 5, 23, 59, 59, 999999999, ist)},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			start, end, err := svc.ResolveRange(tt.r, tt.startDate, tt.endDate)
			if err != nil {
				t.Fatal(err)
			}
			if !start.Equal(tt.start) || !end.Equal(tt.end) {
				t.Errorf("got %s .. %s", start, end)
			}
		})
	}

	if _, _, err := svc.ResolveRange(RangeCustom, "01/03/2024", "2024-03-05"); err == nil {
		t.Error("bad custom date should fail")
	}
	if _, _, err := svc.ResolveRange("year", "", ""); err == nil {
		t.Error("unknown range should fail")
	}
}

func TestCustomRangeIncludesLastInstantOfEndDate(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 59, 59, 999600000, time.UTC)
	repo := seedRecords(t,
		entity.DispenseRecord{TotalAmount: 2500, PaymentMode: enum.PaymentModeCash, DispensedDate: late},
		entity.DispenseRecord{TotalAmount: 9900, PaymentMode: enum.PaymentModeCash, DispensedDate: late.Add(time.Millisecond)},
	)

	summary, err := NewAnalyticsService(repo, time.UTC).Summary(context.Background(), RangeCustom, "2026-03-10", "2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalAmount != 2500 || summary.RecordCount != 1 {
		t.Fatalf("total=%d count=%d", summary.TotalAmount, summary.RecordCount)
	}
}
