package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/sangkips/pharmacy-api/pkg/printer"
	"github.com/sangkips/pharmacy-api/pkg/receiptpdf"
	"github.com/sangkips/pharmacy-api/pkg/storage"
)

// PrinterService renders bills for the thermal printer and as PDF.
type PrinterService struct {
	dispense    *DispenseService
	printer     printer.Printer
	printerType string
	paperWidth  int
	archive     storage.Store
}

// NewPrinterService creates a new printer service. archive may be nil.
func NewPrinterService(
	dispense *DispenseService,
	p printer.Printer,
	printerType string,
	paperWidth int,
	archive storage.Store,
) *PrinterService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	if paperWidth <= 0 {
		paperWidth = printer.Width58mm
	}
	return &PrinterService{
		dispense:    dispense,
		printer:     p,
		printerType: printerType,
		paperWidth:  paperWidth,
		archive:     archive,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	PaperWidth int    `json:"paper_width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
		PaperWidth: s.paperWidth,
	}
}

// TestPrint sends a sample bill to the printer and returns it.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		BusinessInfo: s.dispense.business,
		BillNumber:   "BILL-000000",
		Date:         s.dispense.now().In(s.dispense.location).Format(receiptDateLayout),
		PatientName:  "Printer Test",
		DoctorName:   defaultDoctorName,
		Items: []entity.ReceiptItem{
			{Particulars: "Test Tablet 10s", Qty: 1, BatchNumber: "T001", ExpiryDate: "2099-12-31", Rate: 10, Amount: 10},
		},
		TotalAmount: 10,
		PaymentMode: "CASH",
	}
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.paperWidth)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintReceipt sends an already built receipt to the printer.
func (s *PrinterService) PrintReceipt(ctx context.Context, receipt *entity.Receipt) error {
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.paperWidth)); err != nil {
		log.Printf("Printer error (bill %s): %v", receipt.BillNumber, err)
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// PrintBill rebuilds a past bill and prints it. The receipt is returned even
// when printing fails so the caller can still show it.
func (s *PrinterService) PrintBill(ctx context.Context, billNumber string) (*entity.Receipt, error) {
	receipt, err := s.dispense.GetReceipt(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	return receipt, s.PrintReceipt(ctx, receipt)
}

// BillPDF renders a past bill as PDF and, when an archive is configured,
// stores a copy under bills/. Archive failures are logged only.
func (s *PrinterService) BillPDF(ctx context.Context, billNumber string) ([]byte, error) {
	receipt, err := s.dispense.GetReceipt(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	data, err := receiptpdf.Render(ReceiptPDF(receipt))
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("bills/%s.pdf", billNumber)
		if loc, err := s.archive.Put(ctx, key, "application/pdf", data); err != nil {
			log.Printf("Warning: failed to archive %s: %v", key, err)
		} else {
			log.Printf("Archived %s to %s", billNumber, loc)
		}
	}
	return data, nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatReceipt converts a Receipt into ESC/POS bytes for paper width characters wide.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	info := r.BusinessInfo

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(info.Name).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if info.Address != "" {
		doc.Text(info.Address)
	}
	if phones := joinNonEmpty(", ", info.Phone1, info.Phone2); phones != "" {
		doc.TextF("Ph: %s", phones)
	}
	if info.DLNo != "" {
		doc.TextF("DL No: %s", info.DLNo)
	}
	if info.GSTIN != "" {
		doc.TextF("GSTIN: %s", info.GSTIN)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Bill No:", r.BillNumber).
		KeyValue("Date:", r.Date).
		KeyValue("Patient:", r.PatientName).
		KeyValue("Doctor:", r.DoctorName).
		Separator('-')

	cols := []int{-1, 4, 9}
	doc.SetBold(true).
		Row(cols, "Particulars", "Qty", "Amount").
		SetBold(false)

	for _, item := range r.Items {
		doc.Row(cols, item.Particulars, fmt.Sprintf("%d", item.Qty), money(item.Amount))
		doc.TextF("  B:%s E:%s @%s", item.BatchNumber, item.ExpiryDate, money(item.Rate))
		if item.GSTAmount > 0 {
			doc.TextF("  GST %s/unit", money(item.GSTAmount))
		}
	}

	doc.Separator('-').
		SetBold(true).
		KeyValue("TOTAL:", money(r.TotalAmount)).
		SetBold(false).
		KeyValue("Payment:", r.PaymentMode).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Get well soon!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// ReceiptPDF lays a receipt out as a PDF bill
func ReceiptPDF(r *entity.Receipt) *receiptpdf.Bill {
	info := r.BusinessInfo
	bill := &receiptpdf.Bill{
		Title: info.Name,
		HeaderLines: []string{
			info.Address,
			joinNonEmpty(", ", info.Phone1, info.Phone2),
			labelled("DL No", info.DLNo),
			labelled("GSTIN", info.GSTIN),
		},
		LeftMeta:  []string{"Bill No: " + r.BillNumber, "Patient: " + r.PatientName},
		RightMeta: []string{"Date: " + r.Date, "Doctor: " + r.DoctorName},
		Columns: []receiptpdf.Column{
			{Title: "#", Width: 6, Align: "C"},
			{Title: "Particulars", Width: 34},
			{Title: "Batch", Width: 14},
			{Title: "Expiry", Width: 16},
			{Title: "Qty", Width: 8, Align: "R"},
			{Title: "Rate", Width: 12, Align: "R"},
			{Title: "GST", Width: 10, Align: "R"},
			{Title: "Amount", Width: 14, Align: "R"},
		},
		Totals: [][2]string{
			{"TOTAL", money(r.TotalAmount)},
			{"Payment", r.PaymentMode},
		},
		Footer: "Get well soon!",
	}
	for i, item := range r.Items {
		bill.Rows = append(bill.Rows, []string{
			fmt.Sprintf("%d", i+1),
			item.Particulars,
			item.BatchNumber,
			item.ExpiryDate,
			fmt.Sprintf("%d", item.Qty),
			money(item.Rate),
			money(item.GSTAmount),
			money(item.Amount),
		})
	}
	return bill
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
