package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"

	"orcafacil/internal"
	"orcafacil/internal/util"
)

var (
	ignorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^--+$`),
		regexp.MustCompile(`(?i)^obrigad[oa]`),
		regexp.MustCompile(`(?i)^att\.?$`),
		regexp.MustCompile(`(?i)^atenciosamente`),
		regexp.MustCompile(`(?i)^(bom dia|boa tarde|boa noite)[,.!]?$`),
		regexp.MustCompile(`(?i)^tel[:\s]`),
		regexp.MustCompile(`(?i)^e-?mail[:\s]`),
		regexp.MustCompile(`(?i)^http`),
	}
	reLetters = regexp.MustCompile(`\pL`)
	reDigit   = regexp.MustCompile(`\d`)

	nameProbes = []string{"descri", "produto", "item", "material", "mercadoria"}
	qtyProbes  = []string{"qtd", "qtde", "quant"}
	unitProbes = []string{"un", "unid", "medida"}
)

// OrderText turns an order document into the line-per-item text the resolver
// consumes.
func OrderText(source internal.OrderSource, blob []byte) (string, error) {
	switch source {
	case internal.SourceText, "":
		return string(blob), nil
	case internal.SourceHTML:
		return joinLines(ExtractHTML(string(blob))), nil
	case internal.SourceEmail:
		lines, err := ExtractEmail(blob)
		return joinLines(lines), err
	case internal.SourcePDF:
		lines, err := ExtractPDF(blob)
		return joinLines(lines), err
	case internal.SourceXLSX:
		lines, err := ExtractXLSX(blob)
		return joinLines(lines), err
	default:
		return "", fmt.Errorf("unsupported order source: %s", source)
	}
}

// ExtractEmail reads the plain body of a message, falls back to its HTML
// tables, and appends lines found in xlsx and pdf attachments.
func ExtractEmail(raw []byte) ([]string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	lines := extractPlain(env.Text)
	if len(lines) == 0 && env.HTML != "" {
		lines = ExtractHTML(env.HTML)
	}

	for _, att := range env.Attachments {
		lower := strings.ToLower(strings.TrimSpace(att.FileName))
		switch {
		case strings.HasSuffix(lower, ".xlsx"):
			if extra, err := ExtractXLSX(att.Content); err == nil {
				lines = append(lines, extra...)
			}
		case strings.HasSuffix(lower, ".pdf"):
			if extra, err := ExtractPDF(att.Content); err == nil {
				lines = append(lines, extra...)
			}
		}
	}
	return lines, nil
}

// ExtractHTML renders table rows as "qty unit description" lines. A document
// without tables is read as text.
func ExtractHTML(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	out := []string{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := [][]string{}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			rows = append(rows, cells)
		})
		out = append(out, rowsToLines(rows)...)
	})
	if len(out) > 0 {
		return out
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(newline())
	})
	doc.Find("p,div,li,tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(newline())
	})
	return extractPlain(doc.Text())
}

// ExtractXLSX reads every sheet of a workbook as an order table.
func ExtractXLSX(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []string{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		normalized := make([][]string, 0, len(rows))
		for _, row := range rows {
			normalized = append(normalized, normalizeCells(row))
		}
		out = append(out, rowsToLines(normalized)...)
	}
	return out, nil
}

func ExtractPDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, extractPlain(text)...)
	}
	return out, nil
}

// extractPlain keeps lines that look like order items: some letters and no
// greeting or signature noise.
func extractPlain(text string) []string {
	out := []string{}
	for _, line := range splitLines(text) {
		compact := util.NormalizeSpaces(line)
		if compact == "" || isLikelyNoise(compact) || !reLetters.MatchString(compact) {
			continue
		}
		out = append(out, compact)
	}
	return out
}

// rowsToLines finds a header within the first rows and reorders the remaining
// rows so the quantity leads. Without a recognizable header every row with
// letters is taken as is.
func rowsToLines(rows [][]string) []string {
	nameIdx, qtyIdx, unitIdx := -1, -1, -1
	start := 0
	for i := 0; i < len(rows) && i < 3; i++ {
		n, q, u := inferColumns(rows[i])
		if n >= 0 && q >= 0 {
			nameIdx, qtyIdx, unitIdx = n, q, u
			start = i + 1
			break
		}
	}

	out := []string{}
	for _, cells := range rows[start:] {
		if len(cells) == 0 {
			continue
		}
		var line string
		if nameIdx >= 0 {
			name := pickCell(cells, nameIdx)
			if name == "" {
				continue
			}
			parts := []string{}
			if qty := pickCell(cells, qtyIdx); reDigit.MatchString(qty) {
				parts = append(parts, qty)
			}
			if unit := pickCell(cells, unitIdx); unit != "" {
				parts = append(parts, unit)
			}
			line = strings.Join(append(parts, name), " ")
		} else {
			line = util.NormalizeSpaces(strings.Join(cells, " "))
		}
		if line == "" || !reLetters.MatchString(line) || isLikelyNoise(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func inferColumns(headers []string) (nameIdx, qtyIdx, unitIdx int) {
	norm := make([]string, 0, len(headers))
	for _, h := range headers {
		norm = append(norm, strings.ToLower(strings.TrimSpace(h)))
	}
	nameIdx = findHeaderIndex(norm, nameProbes, -1)
	qtyIdx = findHeaderIndex(norm, qtyProbes, -1)
	unitIdx = findHeaderIndex(norm, unitProbes, qtyIdx)
	if unitIdx == nameIdx {
		unitIdx = -1
	}
	return
}

// findHeaderIndex returns the first header that starts with a probe. skip
// excludes a column already claimed by another field.
func findHeaderIndex(headers []string, probes []string, skip int) int {
	for i, h := range headers {
		if i == skip {
			continue
		}
		for _, probe := range probes {
			if strings.HasPrefix(h, probe) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isLikelyNoise(line string) bool {
	for _, re := range ignorePatterns {
		if re.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, util.NormalizeSpaces(c))
	}
	return out
}

func newline() *html.Node {
	return &html.Node{Type: html.TextNode, Data: "\n"}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
