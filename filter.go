package brochure

import "context"

// RelevanceFilter decides which of a page's links belong in a company
// brochure.
type RelevanceFilter interface {
	// SelectLinks asks a language model to pick brochure-relevant
	// links from the page's link list. A reply that cannot be parsed
	// into a LinkSelection fails with EUNPROCESSABLE.
	// An empty selection is a valid outcome, including when the page
	// has no links at all.
	SelectLinks(ctx context.Context, page *Page) (*LinkSelection, error)
}
