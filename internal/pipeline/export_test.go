package pipeline

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"orcafacil/internal"
	"orcafacil/internal/util"
)

func sampleLines() []internal.ResolvedLine {
	cabo := internal.CatalogItem{ID: "c1", Description: "CABO FLEX 2,5MM PRETO", Price: 3.2}
	parafuso := internal.CatalogItem{ID: "c2", Description: "PARAFUSO 4X40", Price: 0.35}
	return []internal.ResolvedLine{
		{ID: "a", Quantity: 100, OriginalText: "1 rolo de cabo", MatchedItem: &cabo, IsLearned: true, ConversionNote: util.StringPtr("1 rolo = 100m")},
		{ID: "b", Quantity: 3, OriginalText: "3 coisas", MatchedItem: nil},
		{ID: "c", Quantity: 1000, OriginalText: "10 cx parafuso", MatchedItem: &parafuso},
	}
}

func TestTotal(t *testing.T) {
	assert.InDelta(t, 320+350, Total(sampleLines()), 1e-9)
	assert.Zero(t, Total(nil))
}

func TestClipboardTSV(t *testing.T) {
	want := "QTD\tDESCRIÇÃO\tVALOR UNITÁRIO\tVALOR TOTAL\n" +
		"100\tCABO FLEX 2,5MM PRETO\t3,20\t320,00\n" +
		"1000\tPARAFUSO 4X40\t0,35\t350,00"
	assert.Equal(t, want, ClipboardTSV(sampleLines()))
	assert.Equal(t, "QTD\tDESCRIÇÃO\tVALOR UNITÁRIO\tVALOR TOTAL", ClipboardTSV(nil))
}

func TestExportXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "orcamento.xlsx")
	require.NoError(t, ExportXLSX(sampleLines(), out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "pedido", rows[0][0])
	assert.Equal(t, "1 rolo de cabo", rows[1][0])
	assert.Equal(t, "c1", rows[1][2])
	assert.Equal(t, "1 rolo = 100m", rows[1][7])
	assert.Equal(t, "3 coisas", rows[2][0])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "total", rows[4][4])
	total, err := strconv.ParseFloat(rows[4][5], 64)
	require.NoError(t, err)
	assert.InDelta(t, 670, total, 1e-6)
}
