package money

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		amount   Amount
		percent  float64
		expected Amount
	}{
		{"Whole", 2000000, 10, 200000},
		{"Fractional percent", 1000000, 2.5, 25000},
		{"Rounds down", 999, 10, 99},
		{"Zero", 0, 50, 0},
		{"Hundred", 123456, 100, 123456},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percent(tt.amount, tt.percent))
		})
	}
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, Amount(1), Min(1, 2))
	assert.Equal(t, Amount(2), Max(1, 2))
	assert.Equal(t, Amount(0), Max(-5, 0))
}

func TestAmountMul(t *testing.T) {
	assert.Equal(t, Amount(3000), Amount(1000).Mul(3))
}

func TestFromDecimal(t *testing.T) {
	assert.Equal(t, Amount(12), FromDecimal(decimal.RequireFromString("12.99")))
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "1.850.000 ₫", FormatVND(1850000))
	assert.Equal(t, "0 ₫", FormatVND(0))
	assert.Equal(t, "500 ₫", FormatVND(500))
}

func TestUsagePercent(t *testing.T) {
	assert.Equal(t, 22.5, UsagePercent(45, 200))
	assert.Equal(t, 0.0, UsagePercent(0, 500))
	assert.Equal(t, 100.0, UsagePercent(100, 100))
	assert.Equal(t, 100.0, UsagePercent(150, 100))
	assert.Equal(t, 100.0, UsagePercent(1, 0))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 2, 19, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "19/02/2026", FormatDate(ts, nil))

	hcm := time.FixedZone("ICT", 7*3600)
	assert.Equal(t, "20/02/2026", FormatDate(ts, hcm))
}
