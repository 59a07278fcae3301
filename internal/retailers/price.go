package retailers

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPricePattern = regexp.MustCompile(`(\d+\.\d+)`)
	integerPricePattern = regexp.MustCompile(`(\d+)`)
)

// parseDecimalPrice extracts a price like "24.99" from text such as
// "$24.99". Used for retailers that always render cents.
func parseDecimalPrice(text string) (float64, error) {
	match := decimalPricePattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0, ErrBadPrice
	}
	return strconv.ParseFloat(match[1], 64)
}

// parseRupeePrice extracts a whole-rupee price from text such as
// "₹1,299.00" or "Rs. 799". Currency glyphs and thousands separators
// are stripped first, then the leading digit run is taken, so
// "₹1,299.00" parses as 1299.
func parseRupeePrice(text string) (float64, error) {
	text = strings.ReplaceAll(text, "Rs.", "")
	text = strings.ReplaceAll(text, "₹", "")
	text = strings.ReplaceAll(text, ",", "")

	match := integerPricePattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0, ErrBadPrice
	}
	return strconv.ParseFloat(match[1], 64)
}
