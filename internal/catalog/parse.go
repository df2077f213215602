package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"orcafacil/internal"
	"orcafacil/internal/util"
)

// ParseTSV reads "description<TAB>price" lines. Lines without both fields are
// skipped. IDs are derived from the line index of the source text.
func ParseTSV(text string) []internal.CatalogItem {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]internal.CatalogItem, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		if item, ok := toItem(i, parts[0], parts[1]); ok {
			out = append(out, item)
		}
	}
	return out
}

// ParseXLSX reads the first sheet of a workbook: description in column A,
// price in column B. Header rows fall out because their price does not parse.
func ParseXLSX(content []byte) ([]internal.CatalogItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	out := make([]internal.CatalogItem, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if item, ok := toItem(i, row[0], row[1]); ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// LoadFile picks the parser from the file extension; anything that is not
// .xlsx is read as TSV.
func LoadFile(path string) ([]internal.CatalogItem, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		items, err := ParseXLSX(blob)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		return items, nil
	}
	return ParseTSV(string(blob)), nil
}

func toItem(index int, rawDescription, rawPrice string) (internal.CatalogItem, bool) {
	description := strings.TrimSpace(rawDescription)
	if description == "" {
		return internal.CatalogItem{}, false
	}
	price, ok := util.ParsePrice(rawPrice)
	if !ok {
		return internal.CatalogItem{}, false
	}
	return internal.CatalogItem{ID: fmt.Sprintf("cat-%d", index), Description: description, Price: price}, true
}
