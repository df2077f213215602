package pipeline

import (
	"strings"

	"orcafacil/internal"
	"orcafacil/internal/util"
)

// ParseLines splits a raw order into its non-blank lines. Position counts kept
// lines only, so it is dense from 0.
func ParseLines(raw string) []internal.OrderLine {
	parts := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]internal.OrderLine, 0, len(parts))
	for _, p := range parts {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		out = append(out, internal.OrderLine{
			Position: len(out),
			Text:     text,
			Quantity: util.ParseLeadingQty(text),
		})
	}
	return out
}
