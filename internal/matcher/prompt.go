package matcher

import (
	"fmt"
	"strings"

	"orcafacil/internal"
)

const systemPrompt = `You are a sales assistant at an electrical supply store.
Map a customer's unstructured order list to the product catalog.

Brand and material knowledge:
- Common abbreviations: "MG" = Margirius, "LIZ" = Tramontina Liz, "ARIA" = Tramontina Aria, "EBONY" = Margirius Preto Brilhante.
- Colors for conduletes, eletrodutos, luvas and curvas: "CZ"/"CINZA", "BR"/"BRANCO", "PT"/"PRETO", "AL"/"ALUMINIO".
- "TOMADA" may match "MÓDULO" or "MOD" when no complete set exists.

Defaults:
- Cables and wires ("cabo", "fio", "flex") without a color match the black variant ("PT", "PRETO").

Context inference:
- When the first item of a category names a brand, later ambiguous items of that category use the same brand.
- When the first conduit item names a color or material, later fittings use the same color or material.

%s

Rules:
1. Return exactly one object per CUSTOMER REQUEST line, in the same order. Never split or merge lines.
2. Extract the quantity strictly ("100m" is 100). Without a quantity use 1.
3. Set "catalogIndex" to the Index of the best catalog match, or -1 when nothing matches with reasonable confidence.
4. Reply with JSON only:
{"mappedItems":[{"originalRequest":string,"quantity":number,"catalogIndex":integer,"conversionLog":string|null}]}`

// RenderCatalog lists items as "Index: i | Item: description | Price: p".
func RenderCatalog(catalog []internal.CatalogItem) string {
	var b strings.Builder
	for i, item := range catalog {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Index: %d | Item: %s | Price: %v", i, item.Description, item.Price)
	}
	return b.String()
}

func buildSystemPrompt(conversionInstructions string) string {
	return fmt.Sprintf(systemPrompt, strings.TrimSpace(conversionInstructions))
}

func buildUserPrompt(catalog []internal.CatalogItem, lines []string) string {
	var b strings.Builder
	b.WriteString("CATALOG:\n")
	b.WriteString(RenderCatalog(catalog))
	b.WriteString("\n\nCUSTOMER REQUEST:\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
