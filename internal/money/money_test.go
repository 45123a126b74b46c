package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00 €"},
		{"5", "5,00 €"},
		{"450", "450,00 €"},
		{"1234.56", "1.234,56 €"},
		{"1234.5", "1.234,50 €"},
		{"1234567.891", "1.234.567,89 €"},
		{"-20", "-20,00 €"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEUR(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatEURWhole(t *testing.T) {
	assert.Equal(t, "450 €", FormatEURWhole(decimal.RequireFromString("450.99")))
	assert.Equal(t, "1.200 €", FormatEURWhole(decimal.RequireFromString("1200")))
	assert.Equal(t, "0 €", FormatEURWhole(decimal.Zero))
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "12", FormatDecimal(decimal.NewFromInt(12)))
	assert.Equal(t, "12,5", FormatDecimal(decimal.RequireFromString("12.5")))
}
