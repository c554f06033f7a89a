package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	stockSheet       = "Stock"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	reportTimeLayout = "20060102-150405"
)

// stockColumns is the export layout; the import accepts the same headers
var stockColumns = []string{
	"Name", "Batch Number", "HSN Code", "Quantity", "Expiry Date",
	"Price", "GST %", "GST Amount", "Total Amount", "Status",
}

// importHeaders maps a normalised header to the field it fills
var importHeaders = map[string]string{
	"name":          "name",
	"medicine":      "name",
	"medicinename":  "name",
	"batch":         "batch_number",
	"batchno":       "batch_number",
	"batchnumber":   "batch_number",
	"hsn":           "hsn_code",
	"hsncode":       "hsn_code",
	"qty":           "quantity",
	"quantity":      "quantity",
	"expiry":        "expiry_date",
	"expirydate":    "expiry_date",
	"exp":           "expiry_date",
	"price":         "price",
	"rate":          "price",
	"gst":           "gst_percentage",
	"gstpercentage": "gst_percentage",
}

// expiry layouts accepted on import, first match wins
var expiryLayouts = []string{entity.ExpiryDateLayout, "02/01/2006", "02-01-2006", "2006/01/02"}

// ReportService exports the stock list to xlsx and imports medicines from xlsx.
type ReportService struct {
	medicineRepo    repository.MedicineRepository
	medicineService *MedicineService
	archive         storage.Store
	location        *time.Location
	now             func() time.Time
}

// NewReportService creates a new report service. archive may be nil.
func NewReportService(
	medicineRepo repository.MedicineRepository,
	medicineService *MedicineService,
	archive storage.Store,
	location *time.Location,
) *ReportService {
	if location == nil {
		location = time.Local
	}
	return &ReportService{
		medicineRepo:    medicineRepo,
		medicineService: medicineService,
		archive:         archive,
		location:        location,
		now:             time.Now,
	}
}

// StockReport is a rendered spreadsheet
type StockReport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportStock writes the filtered medicine list to a workbook
func (s *ReportService) ExportStock(ctx context.Context, params *repository.MedicineFilterParams) (*StockReport, error) {
	medicines, err := s.medicineRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, title := range stockColumns {
		if err := setCell(f, i+1, 1, title); err != nil {
			return nil, err
		}
	}

	var stockValue decimal.Decimal
	for r, m := range medicines {
		row := r + 2
		p := m.Pricing().Decimal()
		values := []interface{}{
			m.Name, m.BatchNumber, m.HSNCode, m.Quantity, m.ExpiryDate,
			p.Price.InexactFloat64(), p.GSTPercentage.InexactFloat64(),
			p.GSTAmount.InexactFloat64(), p.TotalAmount.InexactFloat64(), m.Status.String(),
		}
		for c, v := range values {
			if err := setCell(f, c+1, row, v); err != nil {
				return nil, err
			}
		}
		stockValue = stockValue.Add(p.TotalAmount.Mul(decimal.NewFromInt(int64(m.Quantity))))
	}

	totalRow := len(medicines) + 3
	if err := setCell(f, 8, totalRow, "Stock Value"); err != nil {
		return nil, err
	}
	if err := setCell(f, 9, totalRow, pricing.Round2(stockValue).InexactFloat64()); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(stockColumns), 1)
	if err := f.SetCellStyle(stockSheet, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	_ = f.SetColWidth(stockSheet, "A", "A", 32)
	_ = f.SetColWidth(stockSheet, "B", "J", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	report := &StockReport{
		Filename:    fmt.Sprintf("stock-%s.xlsx", s.now().In(s.location).Format(reportTimeLayout)),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}

	if s.archive != nil {
		key := "reports/" + report.Filename
		if _, err := s.archive.Put(ctx, key, xlsxContentType, report.Data); err != nil {
			log.Printf("Warning: failed to archive %s: %v", key, err)
		}
	}
	return report, nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(stockSheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", cell, err)
	}
	return nil
}

// ImportStock reads the first sheet of an uploaded workbook and creates a
// medicine per data row. Unparseable cells fail their row only.
func (s *ReportService) ImportStock(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, parseErrors, err := ParseMedicineSheet(r)
	if err != nil {
		return nil, err
	}

	result, err := s.medicineService.ImportMedicines(ctx, rows)
	if err != nil {
		return nil, err
	}

	failedRows := map[int]bool{}
	for _, e := range parseErrors {
		failedRows[e.Row] = true
	}
	result.TotalRows += len(failedRows)
	result.Failed += len(failedRows)
	result.Errors = append(result.Errors, parseErrors...)
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Row < result.Errors[j].Row
	})
	return result, nil
}

// ParseMedicineSheet maps the header row to medicine fields and converts each
// following row. Rows with nothing in a known column are skipped, which
// also drops the Stock Value footer of an exported sheet.
func ParseMedicineSheet(r io.Reader) ([]ImportMedicineRow, []ImportRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperror.NewBadRequestError("File is not a valid xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperror.NewBadRequestError("Workbook has no sheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(raw) < 2 {
		return nil, nil, apperror.NewBadRequestError("Sheet has no data rows")
	}

	fields := make([]string, len(raw[0]))
	seenName := false
	for i, h := range raw[0] {
		fields[i] = importHeaders[normaliseHeader(h)]
		if fields[i] == "name" {
			seenName = true
		}
	}
	if !seenName {
		return nil, nil, apperror.NewBadRequestError("Header row must contain a Name column")
	}

	var rows []ImportMedicineRow
	var rowErrors []ImportRowError
	for i, cells := range raw[1:] {
		rowNum := i + 2
		if blankRow(cells, fields) {
			continue
		}
		row := ImportMedicineRow{Row: rowNum}
		var bad []ImportRowError
		for c, cell := range cells {
			if c >= len(fields) || fields[c] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			switch fields[c] {
			case "name":
				row.Name = cell
			case "batch_number":
				row.BatchNumber = cell
			case "hsn_code":
				row.HSNCode = cell
			case "expiry_date":
				row.ExpiryDate = normaliseExpiry(cell)
			case "quantity":
				if cell == "" {
					continue
				}
				q, err := decimal.NewFromString(cell)
				if err != nil || !q.Equal(q.Truncate(0)) {
					bad = append(bad, ImportRowError{Row: rowNum, Field: "quantity", Message: fmt.Sprintf("Quantity %q is not a whole number", cell)})
					continue
				}
				row.Quantity = int(q.IntPart())
			case "price", "gst_percentage":
				if cell == "" {
					continue
				}
				v, err := decimal.NewFromString(strings.TrimSuffix(cell, "%"))
				if err != nil {
					bad = append(bad, ImportRowError{Row: rowNum, Field: fields[c], Message: fmt.Sprintf("%q is not a number", cell)})
					continue
				}
				if fields[c] == "price" {
					row.Price = v
				} else {
					row.GSTPercentage = v
				}
			}
		}
		if len(bad) > 0 {
			rowErrors = append(rowErrors, bad...)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func normaliseHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normaliseExpiry(cell string) string {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Format(entity.ExpiryDateLayout)
		}
	}
	// spreadsheet serial dates
	if serial, err := strconv.ParseFloat(cell, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(entity.ExpiryDateLayout)
		}
	}
	return cell
}

func blankRow(cells, fields []string) bool {
	for i, c := range cells {
		if i < len(fields) && fields[i] != "" && strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
