package mock

import (
	"context"

	"github.com/fwojciec/brochure"
)

var _ brochure.RelevanceFilter = (*RelevanceFilter)(nil)

// RelevanceFilter is a mock implementation of brochure.RelevanceFilter.
type RelevanceFilter struct {
	SelectLinksFn func(ctx context.Context, page *brochure.Page) (*brochure.LinkSelection, error)
}

func (f *RelevanceFilter) SelectLinks(ctx context.Context, page *brochure.Page) (*brochure.LinkSelection, error) {
	return f.SelectLinksFn(ctx, page)
}
