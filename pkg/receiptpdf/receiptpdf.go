// Package receiptpdf lays out A5 bill PDFs with gofpdf.
package receiptpdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Column is one table column. Width is in millimetres.
type Column struct {
	Title string
	Width float64
	Align string // "L", "C" or "R"
}

// Bill is everything printed on one page
type Bill struct {
	Title       string
	HeaderLines []string // centred under the title
	LeftMeta    []string
	RightMeta   []string
	Columns     []Column
	Rows        [][]string
	Totals      [][2]string // label, value
	Footer      string
}

const (
	margin     = 8.0
	lineHeight = 5.0
	rowHeight  = 6.0
)

// Render draws b and returns the PDF bytes
func Render(b *Bill) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(contentW, 8, tr(b.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	for _, line := range b.HeaderLines {
		if line == "" {
			continue
		}
		pdf.CellFormat(contentW, lineHeight-1, tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(margin, pdf.GetY(), pageW-margin, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 9)
	rows := len(b.LeftMeta)
	if len(b.RightMeta) > rows {
		rows = len(b.RightMeta)
	}
	half := contentW / 2
	for i := 0; i < rows; i++ {
		left, right := "", ""
		if i < len(b.LeftMeta) {
			left = b.LeftMeta[i]
		}
		if i < len(b.RightMeta) {
			right = b.RightMeta[i]
		}
		pdf.CellFormat(half, lineHeight, tr(left), "", 0, "L", false, 0, "")
		pdf.CellFormat(half, lineHeight, tr(right), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	widths := fitWidths(b.Columns, contentW)
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(235, 235, 235)
	for i, col := range b.Columns {
		pdf.CellFormat(widths[i], rowHeight, tr(col.Title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range b.Rows {
		for i, col := range b.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := col.Align
			if align == "" {
				align = "L"
			}
			pdf.CellFormat(widths[i], rowHeight, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(2)
	labelW := contentW * 0.75
	for _, t := range b.Totals {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(labelW, rowHeight, tr(t[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW-labelW, rowHeight, tr(t[1]), "", 1, "R", false, 0, "")
	}

	if b.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(contentW, lineHeight, tr(b.Footer), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receiptpdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWidths scales the declared widths so the table spans the content width
func fitWidths(cols []Column, total float64) []float64 {
	widths := make([]float64, len(cols))
	var sum float64
	for _, c := range cols {
		sum += c.Width
	}
	for i, c := range cols {
		if sum <= 0 {
			widths[i] = total / float64(len(cols))
			continue
		}
		widths[i] = c.Width / sum * total
	}
	return widths
}
