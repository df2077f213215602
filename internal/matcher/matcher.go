package matcher

import (
	"context"

	"orcafacil/internal"
)

// NotFound is the catalog index of a line the matcher could not place.
const NotFound = -1

// RemoteMatcher maps order lines to positions in catalog. Implementations
// return one result per line, in line order, or an error for the whole batch.
type RemoteMatcher interface {
	Match(ctx context.Context, catalog []internal.CatalogItem, lines []string) ([]Result, error)
}

type Result struct {
	Quantity       float64
	CatalogIndex   int
	ConversionNote *string
}
