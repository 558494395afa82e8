package extract

import "github.com/nao1215/ghcrawl/internal/model"

// Listing is what a search results page yields.
type Listing struct {
	// References are the item links on the page in document order.
	References []model.ItemReference

	// Next is the absolute URL of the following page, or "" on the last page.
	Next string
}

// HasNext reports whether another page follows.
func (l Listing) HasNext() bool {
	return l.Next != ""
}

// Extractor parses listing and detail pages.
// Implementations must be safe for concurrent use.
type Extractor interface {
	// ExtractListing returns the item references and next-page pointer.
	ExtractListing(body string) Listing

	// ExtractDetail returns the named percentages found on an item page.
	// The result is never nil.
	ExtractDetail(body string) map[string]float64
}
