package document

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "cero"},
		{7, "siete"},
		{15, "quince"},
		{16, "dieciséis"},
		{20, "veinte"},
		{21, "veinte y uno"},
		{99, "noventa y nueve"},
		{100, "cien"},
		{101, "ciento uno"},
		{150, "ciento cincuenta"},
		{500, "quinientos"},
		{999, "novecientos noventa y nueve"},
		{1000, "mil"},
		{1001, "mil uno"},
		{1999, "mil novecientos noventa y nueve"},
		{2000, "dos mil"},
		{2500, "dos mil quinientos"},
		{21000, "veinte y uno mil"},
		{100000, "cien mil"},
		{999999, "novecientos noventa y nueve mil novecientos noventa y nueve"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberToWords(tt.n))
		})
	}
}

func TestNumberToWordsOutOfRange(t *testing.T) {
	assert.Equal(t, "1000000", NumberToWords(1_000_000))
	assert.Equal(t, "-5", NumberToWords(-5))
}

func TestNumberToWordsAlphabet(t *testing.T) {
	for n := 0; n <= 999_999; n += 7 {
		w := NumberToWords(n)
		if !assert.NotEmpty(t, w, "n=%d", n) {
			return
		}
		for _, r := range w {
			if r != ' ' && !(unicode.IsLetter(r) && unicode.IsLower(r)) {
				t.Fatalf("NumberToWords(%d) = %q contains %q", n, w, r)
			}
		}
	}
}
