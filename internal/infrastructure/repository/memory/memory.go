// Package memory holds map-backed repositories used by tests and by
// STORE_DRIVER=memory. Data lives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
)

// MedicineRepository is an in-memory medicine store
type MedicineRepository struct {
	mu    sync.RWMutex
	items map[string]entity.Medicine
	now   func() time.Time
}

// NewMedicineRepository creates an empty medicine store
func NewMedicineRepository() *MedicineRepository {
	return &MedicineRepository{items: map[string]entity.Medicine{}, now: time.Now}
}

var _ domainRepo.MedicineRepository = (*MedicineRepository)(nil)

func (r *MedicineRepository) Create(ctx context.Context, medicine *entity.Medicine) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperror.NewStoreUnavailableError("create medicine", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if medicine.ID == "" {
		medicine.ID = uuid.NewString()
	}
	now := r.now().UTC()
	medicine.CreatedAt, medicine.UpdatedAt = now, now
	r.items[medicine.ID] = *medicine
	return medicine.ID, nil
}

func (r *MedicineRepository) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreUnavailableError("get medicine", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MedicineRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Medicine, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreUnavailableError("get medicines", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.Medicine{}
	seen := map[string]bool{}
	for _, id := range ids {
		if m, ok := r.items[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MedicineRepository) Update(ctx context.Context, id string, update entity.MedicineUpdate) error {
	if err := ctx.Err(); err != nil {
		return apperror.NewStoreUnavailableError("update medicine", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return apperror.NewNotFoundError("Medicine")
	}
	if update.IsEmpty() {
		return nil
	}
	update.Apply(&m)
	m.UpdatedAt = r.now().UTC()
	r.items[id] = m
	return nil
}

func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return apperror.NewStoreUnavailableError("delete medicine", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return apperror.NewNotFoundError("Medicine")
	}
	delete(r.items, id)
	return nil
}

func (r *MedicineRepository) List(ctx context.Context, params *domainRepo.MedicineFilterParams) ([]entity.Medicine, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreUnavailableError("list medicines", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.Medicine{}
	for _, m := range r.items {
		if matchesMedicine(m, params) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matchesMedicine(m entity.Medicine, params *domainRepo.MedicineFilterParams) bool {
	if params == nil {
		return true
	}
	if params.Status != nil && m.Status != *params.Status {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(params.Search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), search) ||
		strings.Contains(strings.ToLower(m.BatchNumber), search)
}

// DispenseRecordRepository is an in-memory append-only history
type DispenseRecordRepository struct {
	mu      sync.RWMutex
	records []entity.DispenseRecord
	seq     int
}

// NewDispenseRecordRepository creates an empty history
func NewDispenseRecordRepository() *DispenseRecordRepository {
	return &DispenseRecordRepository{}
}

var _ domainRepo.DispenseRecordRepository = (*DispenseRecordRepository)(nil)

func (r *DispenseRecordRepository) Create(ctx context.Context, record *entity.DispenseRecord) error {
	if err := ctx.Err(); err != nil {
		return apperror.NewStoreUnavailableError("create dispense record", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		// zero-padded so lexical order follows insertion order
		r.seq++
		record.ID = fmt.Sprintf("rec-%010d", r.seq)
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *DispenseRecordRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.DispenseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreUnavailableError("list dispense records by date", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.DispenseRecord{}
	for _, rec := range r.records {
		if !rec.DispensedDate.Before(start) && !rec.DispensedDate.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *DispenseRecordRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams) ([]entity.DispenseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreUnavailableError("list dispense records", err)
	}
	params.Validate()
	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	r.mu.RLock()
	sorted := make([]entity.DispenseRecord, len(r.records))
	copy(sorted, r.records)
	r.mu.RUnlock()

	sort.Slice(sorted, func(i, j int) bool { return newerThan(sorted[i], sorted[j].DispensedDate, sorted[j].ID) })

	out := []entity.DispenseRecord{}
	for _, rec := range sorted {
		if cursor != nil && !newerThan(entity.DispenseRecord{DispensedDate: cursor.At, ID: cursor.ID}, rec.DispensedDate, rec.ID) {
			continue
		}
		out = append(out, rec)
		if len(out) == params.Limit+1 {
			break
		}
	}
	return out, nil
}

// newerThan orders by (dispensedDate desc, id desc)
func newerThan(a entity.DispenseRecord, at time.Time, id string) bool {
	if !a.DispensedDate.Equal(at) {
		return a.DispensedDate.After(at)
	}
	return a.ID > id
}

func (r *DispenseRecordRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperror.NewStoreUnavailableError("count dispense records", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

func (r *DispenseRecordRepository) ListByBillNumber(ctx context.Context, billNumber string) ([]entity.DispenseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreUnavailableError("list bill lines", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []entity.DispenseRecord{}
	for _, rec := range r.records {
		if rec.BillNumber == billNumber {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out, nil
}

// IdempotencyRepository is an in-memory idempotency store
type IdempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

// NewIdempotencyRepository creates an empty idempotency store
func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{keys: map[string]entity.IdempotencyKey{}}
}

var _ domainRepo.IdempotencyRepository = (*IdempotencyRepository)(nil)

func (r *IdempotencyRepository) GetByKey(ctx context.Context, key, clientID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ikey, ok := r.keys[clientID+"\x00"+key]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *IdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := ikey.ClientID + "\x00" + ikey.Key
	if _, exists := r.keys[k]; exists {
		return apperror.NewConflictError("Idempotency key already used")
	}
	if ikey.ID == "" {
		ikey.ID = uuid.NewString()
	}
	r.keys[k] = *ikey
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.keys {
		if v.IsExpired(now) {
			delete(r.keys, k)
		}
	}
	return nil
}
