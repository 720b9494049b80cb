package booking

import (
	"math"
	"strconv"
	"strings"
)

// FormatRupiah renders an amount the way id-ID locales do: "Rp 100.000",
// "Rp 1.250,5".
func FormatRupiah(amount float64) string {
	return "Rp " + formatGrouped(amount)
}

func formatGrouped(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)
	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	if negative && cents != 0 {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != 0 {
		b.WriteByte(',')
		fs := strconv.FormatInt(frac, 10)
		if frac < 10 {
			fs = "0" + fs
		}
		b.WriteString(strings.TrimRight(fs, "0"))
	}
	return b.String()
}
