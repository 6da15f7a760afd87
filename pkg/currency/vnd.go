package currency

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Vietnamese)

// Format renders an amount of Vietnamese đồng for display, using
// Vietnamese digit grouping and a literal "đ" suffix: 300000 → "300.000đ".
// Fractional amounts (hourly billing can produce them) are rounded to the
// nearest whole đồng for display only; arithmetic stays numeric upstream.
func Format(amount float64) string {
	rounded := int64(math.Round(amount))
	return printer.Sprint(number.Decimal(rounded)) + "đ"
}
