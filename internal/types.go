package internal

import "time"

type CatalogItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// OrderLine is one non-blank line of a raw order. Position is 0-based and
// defines the output order of a resolution run.
type OrderLine struct {
	Position int
	Text     string
	Quantity float64
}

type ResolvedLine struct {
	ID             string       `json:"id"`
	Quantity       float64      `json:"quantity"`
	OriginalText   string       `json:"originalText"`
	MatchedItem    *CatalogItem `json:"matchedItem"`
	IsLearned      bool         `json:"isLearned"`
	ConversionNote *string      `json:"conversionNote,omitempty"`
}

// LearnedMatch maps normalized order text to a catalog item. OriginalText is
// already normalized and unique within the cache.
type LearnedMatch struct {
	OriginalText       string    `json:"originalText"`
	ProductID          string    `json:"productId"`
	ProductDescription string    `json:"productDescription"`
	CreatedAt          time.Time `json:"createdAt"`
}

type ConversionRule struct {
	Triggers    []string
	Products    []string
	Multiplier  float64
	ResultUnit  string
	Description string
}

type OrderSource string

const (
	SourceText  OrderSource = "text"
	SourceHTML  OrderSource = "html"
	SourceEmail OrderSource = "eml"
	SourcePDF   OrderSource = "pdf"
	SourceXLSX  OrderSource = "xlsx"
)
