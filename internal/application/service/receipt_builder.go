package service

import (
	"strings"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/internal/domain/enum"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
)

const (
	// receiptDateLayout is dd/mm/yyyy, as printed on Indian retail bills
	receiptDateLayout = "02/01/2006"
	defaultDoctorName = "Self"
)

// BuildReceipt turns the lines of one bill into the printable payload.
// Item amounts are the real line values, quantity × (rate + GST), even on a
// zero-charge bill; only the receipt total follows the recorded totals.
func BuildReceipt(info entity.BusinessInfo, records []entity.DispenseRecord, loc *time.Location) *entity.Receipt {
	if loc == nil {
		loc = time.Local
	}
	receipt := &entity.Receipt{
		BusinessInfo: info,
		Items:        make([]entity.ReceiptItem, 0, len(records)),
	}
	if len(records) == 0 {
		return receipt
	}

	first := records[0]
	receipt.BillNumber = first.BillNumber
	receipt.Date = first.DispensedDate.In(loc).Format(receiptDateLayout)
	receipt.PatientName = first.PatientName
	receipt.DoctorName = strings.TrimSpace(first.DoctorName)
	if receipt.DoctorName == "" {
		receipt.DoctorName = defaultDoctorName
	}
	receipt.PaymentMode = first.PaymentMode.OrDefault().String()

	var total int64
	for _, r := range records {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Particulars: r.MedicineName,
			Qty:         r.Quantity,
			BatchNumber: r.BatchNumber,
			ExpiryDate:  r.ExpiryDate,
			Rate:        pricing.FromHundredths(r.Price).InexactFloat64(),
			Amount:      pricing.FromHundredths(pricing.LineTotal(r.Quantity, r.Price, r.GSTAmount)).InexactFloat64(),
			GSTAmount:   pricing.FromHundredths(r.GSTAmount).InexactFloat64(),
		})
		total += r.TotalAmount
	}
	if enum.PaymentMode(receipt.PaymentMode).IsZeroCharge() {
		total = 0
	}
	receipt.TotalAmount = pricing.FromHundredths(total).InexactFloat64()
	return receipt
}
