package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"orcafacil/internal"
	"orcafacil/internal/util"
)

var clipboardHeader = []string{"QTD", "DESCRIÇÃO", "VALOR UNITÁRIO", "VALOR TOTAL"}

// Total sums quantity times price over matched lines.
func Total(lines []internal.ResolvedLine) float64 {
	var sum float64
	for _, l := range lines {
		if l.MatchedItem != nil {
			sum += l.Quantity * l.MatchedItem.Price
		}
	}
	return sum
}

// ClipboardTSV renders matched lines as a tab-separated block ready to paste
// into a spreadsheet. Numbers use pt-BR notation.
func ClipboardTSV(lines []internal.ResolvedLine) string {
	var b strings.Builder
	b.WriteString(strings.Join(clipboardHeader, "\t"))
	for _, l := range lines {
		if l.MatchedItem == nil {
			continue
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			util.FormatQty(l.Quantity),
			l.MatchedItem.Description,
			util.FormatDecimalBR(l.MatchedItem.Price),
			util.FormatDecimalBR(l.Quantity * l.MatchedItem.Price),
		}, "\t"))
	}
	return b.String()
}

// ExportXLSX writes every resolved line, matched or not, plus a total row.
func ExportXLSX(lines []internal.ResolvedLine, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"pedido", "qtd", "codigo", "descricao", "valor_unitario", "valor_total", "aprendido", "conversao"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 2
	for _, line := range lines {
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, line.OriginalText)
		set(2, line.Quantity)
		if line.MatchedItem != nil {
			set(3, line.MatchedItem.ID)
			set(4, line.MatchedItem.Description)
			set(5, line.MatchedItem.Price)
			set(6, line.Quantity*line.MatchedItem.Price)
		}
		set(7, line.IsLearned)
		set(8, derefString(line.ConversionNote))
		r++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(5, r)
	totalValue, _ := excelize.CoordinatesToCellName(6, r)
	_ = f.SetCellValue(sheet, totalLabel, "total")
	_ = f.SetCellValue(sheet, totalValue, Total(lines))

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
