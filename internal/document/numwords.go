package document

import "strconv"

var (
	wordOnes = [...]string{"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	wordTeens = [...]string{
		"diez", "once", "doce", "trece", "catorce", "quince",
		"dieciséis", "diecisiete", "dieciocho", "diecinueve",
	}
	wordTens = [...]string{
		"", "", "veinte", "treinta", "cuarenta", "cincuenta",
		"sesenta", "setenta", "ochenta", "noventa",
	}
	wordHundreds = [...]string{
		"", "ciento", "doscientos", "trescientos", "cuatrocientos",
		"quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos",
	}
)

// NumberToWords spells n in Spanish ("quinientos", "dos mil trescientos").
// Tens always take the "y" joiner, so 21 is "veinte y uno". Values outside
// [0, 999999] are returned as plain digits.
func NumberToWords(n int) string {
	switch {
	case n < 0 || n > 999_999:
		return strconv.Itoa(n)
	case n == 0:
		return "cero"
	case n < 10:
		return wordOnes[n]
	case n < 20:
		return wordTeens[n-10]
	case n < 100:
		if o := n % 10; o > 0 {
			return wordTens[n/10] + " y " + wordOnes[o]
		}
		return wordTens[n/10]
	case n == 100:
		return "cien"
	case n < 1000:
		if r := n % 100; r > 0 {
			return wordHundreds[n/100] + " " + NumberToWords(r)
		}
		return wordHundreds[n/100]
	case n == 1000:
		return "mil"
	case n < 2000:
		return "mil " + NumberToWords(n-1000)
	}

	prefix := NumberToWords(n/1000) + " mil"
	if r := n % 1000; r > 0 {
		return prefix + " " + NumberToWords(r)
	}
	return prefix
}
