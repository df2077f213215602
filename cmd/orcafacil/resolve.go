package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"orcafacil/internal"
	"orcafacil/internal/pipeline"
	"orcafacil/internal/util"
)

var (
	resolveInput     string
	resolveType      string
	resolveXLSX      string
	resolveClipboard bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve an order against the stored catalog",
	Args:  cobra.NoArgs,
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveInput, "input", "-", "order file, or - for stdin")
	resolveCmd.Flags().StringVar(&resolveType, "type", "", "text|html|eml|pdf|xlsx (default: from file extension)")
	resolveCmd.Flags().StringVar(&resolveXLSX, "xlsx", "", "write the quote to this xlsx file")
	resolveCmd.Flags().BoolVar(&resolveClipboard, "clipboard", false, "print spreadsheet-ready TSV instead of the summary")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	blob, err := readInput(cmd.InOrStdin(), resolveInput)
	if err != nil {
		return err
	}
	source := internal.OrderSource(strings.ToLower(resolveType))
	if source == "" {
		source = sourceFromPath(resolveInput)
	}
	text, err := pipeline.OrderText(source, blob)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	resolver, err := a.resolver()
	if err != nil {
		return err
	}
	lines, err := resolver.Resolve(ctx, text, a.holder.Current())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if resolveClipboard {
		fmt.Fprintln(w, pipeline.ClipboardTSV(lines))
	} else {
		printLines(w, lines)
	}

	if resolveXLSX != "" {
		if err := pipeline.ExportXLSX(lines, resolveXLSX); err != nil {
			return err
		}
		fmt.Fprintf(w, "quote written to %s\n", resolveXLSX)
	}
	return nil
}

func printLines(w io.Writer, lines []internal.ResolvedLine) {
	for i, l := range lines {
		desc := "(sem correspondência: " + util.ExtractDescription(l.OriginalText) + ")"
		price := ""
		if l.MatchedItem != nil {
			desc = l.MatchedItem.Description
			price = util.FormatCurrencyBR(l.Quantity * l.MatchedItem.Price)
		}
		learnedMark := ""
		if l.IsLearned {
			learnedMark = " *"
		}
		note := ""
		if l.ConversionNote != nil {
			note = " [" + *l.ConversionNote + "]"
		}
		fmt.Fprintf(w, "%d. %s x %s %s%s%s\t<- %s\n", i+1, util.FormatQty(l.Quantity), desc, price, learnedMark, note, l.OriginalText)
	}
	fmt.Fprintf(w, "total: %s\n", util.FormatCurrencyBR(pipeline.Total(lines)))
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func sourceFromPath(path string) internal.OrderSource {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return internal.SourceHTML
	case ".eml":
		return internal.SourceEmail
	case ".pdf":
		return internal.SourcePDF
	case ".xlsx":
		return internal.SourceXLSX
	default:
		return internal.SourceText
	}
}
