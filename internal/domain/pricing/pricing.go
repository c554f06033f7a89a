// Package pricing keeps a medicine's price, GST percentage, GST amount and
// total mutually consistent.
//
// All derived values are rounded to two decimal places, half away from zero.
// Amounts cross the package boundary as integer hundredths (paise for money,
// hundredths of a percent for rates) so that storage never holds floats.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Field names the input the operator edited last
type Field string

const (
	FieldPrice         Field = "price"
	FieldGSTPercentage Field = "gst_percentage"
	FieldGSTAmount     Field = "gst_amount"
)

// ParseField accepts the wire names of the three editable fields
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldPrice, FieldGSTPercentage, FieldGSTAmount:
		return Field(s), nil
	case "gstpercentage", "gstPercentage":
		return FieldGSTPercentage, nil
	case "gstamount", "gstAmount":
		return FieldGSTAmount, nil
	}
	return "", fmt.Errorf("unknown pricing field %q", s)
}

var hundred = decimal.NewFromInt(100)

// Breakdown is the price/tax tuple of a medicine
type Breakdown struct {
	Price         decimal.Decimal
	GSTPercentage decimal.Decimal
	GSTAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Round2 rounds to two decimal places, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Recalculate derives the dependent fields from the one that changed.
//
// A change to price or GST percentage recomputes the GST amount and total.
// A change to the GST amount recomputes the percentage and total, unless the
// price is zero, in which case the breakdown is returned untouched.
func Recalculate(b Breakdown, changed Field) Breakdown {
	switch changed {
	case FieldPrice, FieldGSTPercentage:
		b.GSTAmount = Round2(b.Price.Mul(b.GSTPercentage).Div(hundred))
		b.TotalAmount = Round2(b.Price.Add(b.GSTAmount))
	case FieldGSTAmount:
		if !b.Price.IsPositive() {
			return b
		}
		b.GSTPercentage = Round2(b.GSTAmount.Div(b.Price).Mul(hundred))
		b.TotalAmount = Round2(b.Price.Add(b.GSTAmount))
	}
	return b
}

// FromHundredths converts a stored integer amount into a decimal
func FromHundredths(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

// ToHundredths rounds a decimal and converts it into the stored integer form
func ToHundredths(d decimal.Decimal) int64 {
	return Round2(d).Shift(2).IntPart()
}

// Hundredths is the storage form of a Breakdown
type Hundredths struct {
	Price         int64
	GSTPercentage int64
	GSTAmount     int64
	TotalAmount   int64
}

// Decimal expands the stored form
func (h Hundredths) Decimal() Breakdown {
	return Breakdown{
		Price:         FromHundredths(h.Price),
		GSTPercentage: FromHundredths(h.GSTPercentage),
		GSTAmount:     FromHundredths(h.GSTAmount),
		TotalAmount:   FromHundredths(h.TotalAmount),
	}
}

// Hundredths packs a breakdown for storage
func (b Breakdown) Hundredths() Hundredths {
	return Hundredths{
		Price:         ToHundredths(b.Price),
		GSTPercentage: ToHundredths(b.GSTPercentage),
		GSTAmount:     ToHundredths(b.GSTAmount),
		TotalAmount:   ToHundredths(b.TotalAmount),
	}
}

// RecalculateHundredths is Recalculate over the stored integer form
func RecalculateHundredths(h Hundredths, changed Field) Hundredths {
	return Recalculate(h.Decimal(), changed).Hundredths()
}

// LineTotal is quantity × (unit price + unit GST) in hundredths. Exact: no rounding involved.
func LineTotal(quantity int, price, gstAmount int64) int64 {
	return int64(quantity) * (price + gstAmount)
}
