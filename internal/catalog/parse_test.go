package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseTSV(t *testing.T) {
	text := "CABO FLEX 2,5MM PRETO\tR$ 1.234,56\r\n" +
		"\n" +
		"sem preco\n" +
		"PARAFUSO 4X40\t0,35\n" +
		"\tR$ 9,00\n" +
		"BUCHA 6MM\tconsultar\n"

	items := ParseTSV(text)
	require.Len(t, items, 2)

	assert.Equal(t, "cat-0", items[0].ID)
	assert.Equal(t, "CABO FLEX 2,5MM PRETO", items[0].Description)
	assert.InDelta(t, 1234.56, items[0].Price, 1e-9)

	assert.Equal(t, "cat-3", items[1].ID)
	assert.InDelta(t, 0.35, items[1].Price, 1e-9)
}

func TestParseTSVEmpty(t *testing.T) {
	assert.Empty(t, ParseTSV(""))
	assert.Empty(t, ParseTSV("\n\n  \n"))
}

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{"Descrição", "Preço"},
		{"CABO FLEX 2,5MM PRETO", "R$ 3,20"},
		{"PARAFUSO 4X40", "0,35"},
	})

	items, err := ParseXLSX(blob)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "cat-1", items[0].ID)
	assert.InDelta(t, 3.20, items[0].Price, 1e-9)
	assert.Equal(t, "PARAFUSO 4X40", items[1].Description)
}

func TestParseXLSXInvalid(t *testing.T) {
	_, err := ParseXLSX([]byte("not a workbook"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tsv := filepath.Join(dir, "catalog.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("FIO 1,5MM\t2,10\n"), 0o644))
	items, err := LoadFile(tsv)
	require.NoError(t, err)
	require.Len(t, items, 1)

	xlsx := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, os.WriteFile(xlsx, mkXLSX(t, [][]any{{"FIO 1,5MM", "2,10"}}), 0o644))
	items, err = LoadFile(xlsx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "cat-0", items[0].ID)

	_, err = LoadFile(filepath.Join(dir, "missing.tsv"))
	require.Error(t, err)
}
