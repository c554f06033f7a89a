package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
)

// TimeRange selects the analytics window
type TimeRange string

const (
	RangeToday  TimeRange = "today"
	RangeWeek   TimeRange = "week"
	RangeMonth  TimeRange = "month"
	RangeCustom TimeRange = "custom"
)

const dateLayout = "2006-01-02"

// AnalyticsService folds dispensing records into sales figures
type AnalyticsService struct {
	recordRepo repository.DispenseRecordRepository
	location   *time.Location
	now        func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(recordRepo repository.DispenseRecordRepository, location *time.Location) *AnalyticsService {
	if location == nil {
		location = time.Local
	}
	return &AnalyticsService{recordRepo: recordRepo, location: location, now: time.Now}
}

// WithClock replaces the clock used to resolve relative ranges
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// PaymentModeTotal is the share of one payment mode
type PaymentModeTotal struct {
	Mode   enum.PaymentMode `json:"mode"`
	Count  int              `json:"count"`
	Amount int64            `json:"amount"`
}

func (p PaymentModeTotal) MarshalJSON() ([]byte, error) {
	type Alias PaymentModeTotal
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: pricing.FromHundredths(p.Amount).InexactFloat64(),
	})
}

// SalesSummary is the result of an aggregation. Breakdown amounts sum to TotalAmount.
type SalesSummary struct {
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
	TotalAmount int64              `json:"total_amount"`
	RecordCount int                `json:"record_count"`
	Breakdown   []PaymentModeTotal `json:"breakdown"`
}

func (s SalesSummary) MarshalJSON() ([]byte, error) {
	type Alias SalesSummary
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(s),
		TotalAmount: pricing.FromHundredths(s.TotalAmount).InexactFloat64(),
	})
}

// Aggregate sums record totals with start <= dispensedDate <= end, overall
// and per payment mode. Records with no mode count as CASH. The breakdown is
// sorted by amount, largest first, with ties broken by mode name.
func (s *AnalyticsService) Aggregate(ctx context.Context, start, end time.Time) (*SalesSummary, error) {
	if end.Before(start) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}

	records, err := s.recordRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{Start: start, End: end, Breakdown: []PaymentModeTotal{}}
	byMode := map[enum.PaymentMode]*PaymentModeTotal{}
	for _, r := range records {
		mode := r.PaymentMode.OrDefault()
		entry, ok := byMode[mode]
		if !ok {
			entry = &PaymentModeTotal{Mode: mode}
			byMode[mode] = entry
		}
		entry.Count++
		entry.Amount += r.TotalAmount
		summary.TotalAmount += r.TotalAmount
		summary.RecordCount++
	}

	for _, entry := range byMode {
		summary.Breakdown = append(summary.Breakdown, *entry)
	}
	sort.Slice(summary.Breakdown, func(i, j int) bool {
		a, b := summary.Breakdown[i], summary.Breakdown[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Mode < b.Mode
	})
	return summary, nil
}

// ResolveRange turns a named range into instants in the service's location.
// today starts at local midnight; week and month reach back 7 and 30 days to
// midnight; custom spans the whole of both given dates (YYYY-MM-DD).
func (s *AnalyticsService) ResolveRange(r TimeRange, startDate, endDate string) (time.Time, time.Time, error) {
	now := s.now().In(s.location)
	midnight := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.location)
	}

	switch r {
	case "", RangeToday:
		return midnight(now), now, nil
	case RangeWeek:
		return midnight(now.AddDate(0, 0, -7)), now, nil
	case RangeMonth:
		return midnight(now.AddDate(0, 0, -30)), now, nil
	case RangeCustom:
		start, err := time.ParseInLocation(dateLayout, startDate, s.location)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.NewBadRequestError("start_date must be YYYY-MM-DD")
		}
		end, err := time.ParseInLocation(dateLayout, endDate, s.location)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.NewBadRequestError("end_date must be YYYY-MM-DD")
		}
		return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return time.Time{}, time.Time{}, apperror.NewBadRequestError(fmt.Sprintf("Unknown range %q", r))
}

// Summary resolves a named range and aggregates over it
func (s *AnalyticsService) Summary(ctx context.Context, r TimeRange, startDate, endDate string) (*SalesSummary, error) {
	start, end, err := s.ResolveRange(r, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.Aggregate(ctx, start, end)
}
