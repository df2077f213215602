package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingQtyPattern  = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)`)
	leadingDescPattern = regexp.MustCompile(`(?i)^[\d.,]+\s*(?:(?:un|cx|pc|pç|m|kg|g|l|rl|r)\.?(?:\s+|$))?[-xX]?\s*`)
)

const DefaultQty = 1.0

// ParseLeadingQty reads a decimal number at the very start of line. Comma and
// dot are both accepted as decimal separator. Anything else yields DefaultQty.
func ParseLeadingQty(line string) float64 {
	line = strings.TrimSpace(strings.ReplaceAll(line, "\u00A0", " "))
	m := leadingQtyPattern.FindStringSubmatch(line)
	if len(m) < 2 {
		return DefaultQty
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return DefaultQty
	}
	return CoerceQty(parsed)
}

// CoerceQty maps NaN, infinities and non-positive values to DefaultQty.
func CoerceQty(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return DefaultQty
	}
	return v
}

// ExtractDescription strips a leading quantity and unit such as "10x", "100m"
// or "5 cx -" from an order line.
func ExtractDescription(line string) string {
	return strings.TrimSpace(leadingDescPattern.ReplaceAllString(strings.TrimSpace(line), ""))
}

// FormatQty prints whole numbers without a fractional part.
func FormatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func StringPtr(v string) *string { return &v }
