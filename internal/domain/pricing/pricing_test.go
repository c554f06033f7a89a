package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestRecalculateFromPriceOrPercentage(t *testing.T) {
	tests := []struct {
		price, pct       string
		wantGST, wantTot string
	}{
		{"100", "12", "12", "112"},
		{"45.5", "5", "2.28", "47.78"}, // 2.275 rounds away from zero
		{"19.99", "18", "3.6", "23.59"},
		{"10", "0", "0", "10"},
		{"0.01", "2.5", "0", "0.01"},
		{"123.45", "28", "34.57", "158.02"},
	}
	for _, tt := range tests {
		for _, field := range []Field{FieldPrice, FieldGSTPercentage} {
			got := Recalculate(Breakdown{Price: d(tt.price), GSTPercentage: d(tt.pct), GSTAmount: d("999")}, field)
			assertDecimal(t, "gstAmount", got.GSTAmount, tt.wantGST)
			assertDecimal(t, "totalAmount", got.TotalAmount, tt.wantTot)
			assertDecimal(t, "gstPercentage", got.GSTPercentage, tt.pct)
		}
	}
}

func TestRecalculateFromGSTAmount(t *testing.T) {
	got := Recalculate(Breakdown{Price: d("80"), GSTPercentage: d("1"), GSTAmount: d("9.6")}, FieldGSTAmount)
	assertDecimal(t, "gstPercentage", got.GSTPercentage, "12")
	assertDecimal(t, "totalAmount", got.TotalAmount, "89.6")

	got = Recalculate(Breakdown{Price: d("3"), GSTAmount: d("1")}, FieldGSTAmount)
	assertDecimal(t, "gstPercentage", got.GSTPercentage, "33.33")
	assertDecimal(t, "totalAmount", got.TotalAmount, "4")
}

func TestRecalculateZeroPriceSkipsPercentage(t *testing.T) {
	in := Breakdown{Price: decimal.Zero, GSTPercentage: d("5"), GSTAmount: d("10"), TotalAmount: d("7")}
	got := Recalculate(in, FieldGSTAmount)
	assertDecimal(t, "gstPercentage", got.GSTPercentage, "5")
	assertDecimal(t, "totalAmount", got.TotalAmount, "7")
	assertDecimal(t, "gstAmount", got.GSTAmount, "10")
}

func TestRecalculateIsFixedPoint(t *testing.T) {
	for _, field := range []Field{FieldPrice, FieldGSTPercentage, FieldGSTAmount} {
		once := Recalculate(Breakdown{Price: d("100"), GSTPercentage: d("12")}, FieldPrice)
		twice := Recalculate(once, field)
		if field == FieldGSTAmount {
			// amount-driven recompute of a consistent tuple leaves it unchanged
			assertDecimal(t, "gstPercentage", twice.GSTPercentage, "12")
		}
		assertDecimal(t, "gstAmount", twice.GSTAmount, once.GSTAmount.String())
		assertDecimal(t, "totalAmount", twice.TotalAmount, once.TotalAmount.String())
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assertDecimal(t, "0.125", Round2(d("0.125")), "0.13")
	assertDecimal(t, "0.135", Round2(d("0.135")), "0.14")
	assertDecimal(t, "-0.125", Round2(d("-0.125")), "-0.13")
}

func TestHundredthsRoundTrip(t *testing.T) {
	h := RecalculateHundredths(Hundredths{Price: 10000, GSTPercentage: 1200}, FieldPrice)
	if h.GSTAmount != 1200 || h.TotalAmount != 11200 {
		t.Fatalf("got %+v", h)
	}
	if got := LineTotal(3, h.Price, h.GSTAmount); got != 33600 {
		t.Fatalf("LineTotal = %d, want 33600", got)
	}
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{
		"price":          FieldPrice,
		"gst_percentage": FieldGSTPercentage,
		"gstpercentage":  FieldGSTPercentage,
		"gstamount":      FieldGSTAmount,
	} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseField("quantity"); err == nil {
		t.Error("quantity must not be a pricing field")
	}
}
