package receiptpdf

import (
	"bytes"
	"math"
	"testing"
)

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(&Bill{
		Title:       "City Pharmacy",
		HeaderLines: []string{"12 Main Road", "DL No: KA-01", ""},
		LeftMeta:    []string{"Bill No: BILL-000123", "Patient: Ravi"},
		RightMeta:   []string{"Date: 15/10/2026"},
		Columns: []Column{
			{Title: "Particulars", Width: 40},
			{Title: "Qty", Width: 10, Align: "R"},
			{Title: "Amount", Width: 20, Align: "R"},
		},
		Rows:   [][]string{{"Paracetamol 500", "3", "336.00"}, {"Short row"}},
		Totals: [][2]string{{"TOTAL", "336.00"}},
		Footer: "Get well soon",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", out[:8])
	}
}

func TestFitWidths(t *testing.T) {
	got := fitWidths([]Column{{Width: 1}, {Width: 3}}, 100)
	if math.Abs(got[0]-25) > 1e-9 || math.Abs(got[1]-75) > 1e-9 {
		t.Fatalf("got %v", got)
	}
	even := fitWidths([]Column{{}, {}}, 10)
	if even[0] != 5 || even[1] != 5 {
		t.Fatalf("zero widths should split evenly, got %v", even)
	}
}
