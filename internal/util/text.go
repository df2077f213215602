package util

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	reSpaces        = regexp.MustCompile(`\s+`)
	reCurrencyMark  = regexp.MustCompile(`^R\$\s?`)
	reNumericPrefix = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)

	ptBR = message.NewPrinter(language.BrazilianPortuguese)
)

// NormalizeText is the learned-match key: trimmed and case-folded.
func NormalizeText(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// ParsePrice reads prices such as "R$ 1.234,56" or "12,5". Dots are thousand
// separators and the first comma is the decimal separator.
func ParsePrice(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	s = reCurrencyMark.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	num := reNumericPrefix.FindString(s)
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatDecimalBR renders v with two decimals in pt-BR notation (1.234,56).
func FormatDecimalBR(v float64) string {
	return ptBR.Sprintf("%.2f", v)
}

// FormatCurrencyBR renders v as BRL (R$ 1.234,56).
func FormatCurrencyBR(v float64) string {
	return "R$ " + FormatDecimalBR(v)
}
