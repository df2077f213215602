package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText_Idempotent(t *testing.T) {
	inputs := []string{"  1 Rolo CABO 2.5mm Preto ", "TOMADA 10A", "", "Cordão Paralelo", "\tfio\n"}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once), "input %q", in)
	}
	assert.Equal(t, "1 rolo cabo 2.5mm preto", NormalizeText("  1 Rolo CABO 2.5mm Preto "))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"R$ 1.234,56", 1234.56, true},
		{"R$12,50", 12.5, true},
		{"7", 7, true},
		{"1,2", 1.2, true},
		{"sob consulta", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestFormatDecimalBR(t *testing.T) {
	assert.Equal(t, "1.234,50", FormatDecimalBR(1234.5))
	assert.Equal(t, "0,99", FormatDecimalBR(0.99))
	assert.Equal(t, "R$ 12,00", FormatCurrencyBR(12))
}
