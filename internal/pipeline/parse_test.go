package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	lines := ParseLines("10 cabo flex\r\n\n   \n2,5 fio  \nabc\n0 bucha\n-3 prego")
	require.Len(t, lines, 5)

	want := []struct {
		text string
		qty  float64
	}{
		{"10 cabo flex", 10},
		{"2,5 fio", 2.5},
		{"abc", 1},
		{"0 bucha", 1},
		{"-3 prego", 1},
	}
	for i, w := range want {
		assert.Equal(t, i, lines[i].Position)
		assert.Equal(t, w.text, lines[i].Text)
		assert.Equal(t, w.qty, lines[i].Quantity, w.text)
	}
}

func TestParseLinesEmpty(t *testing.T) {
	assert.Empty(t, ParseLines(""))
	assert.Empty(t, ParseLines("\n\n"))
}
