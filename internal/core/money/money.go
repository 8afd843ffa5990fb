// Package money holds the value helpers shared by pricing and the admin
// screens: whole-đồng amounts, percentage math and display formatting.
package money

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amount is a price in whole Vietnamese đồng. VND has no minor unit.
type Amount int64

var (
	vnPrinter = message.NewPrinter(language.Vietnamese)
	hundred   = decimal.NewFromInt(100)
)

// Decimal returns the amount as a decimal for exact arithmetic.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}

// Mul returns a * n.
func (a Amount) Mul(n int) Amount {
	return a * Amount(n)
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

// Percent returns percent% of a, rounded down to the whole đồng.
func Percent(a Amount, percent float64) Amount {
	share := a.Decimal().Mul(decimal.NewFromFloat(percent)).Div(hundred).Floor()
	return Amount(share.IntPart())
}

// FromDecimal rounds d down to the whole đồng.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Floor().IntPart())
}

// FormatVND renders an amount the way the storefront shows prices, e.g. "1.850.000 ₫".
func FormatVND(a Amount) string {
	return vnPrinter.Sprintf("%d ₫", int64(a))
}

// UsagePercent returns used/total as a percentage capped at 100.
func UsagePercent(used, total int) float64 {
	if total <= 0 {
		return 100
	}
	p := decimal.NewFromInt(int64(used)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
	if p.GreaterThan(hundred) {
		return 100
	}
	f, _ := p.Float64()
	return f
}

// FormatDate renders a timestamp as dd/mm/yyyy in the given location.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02/01/2006")
}
