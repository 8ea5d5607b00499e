package mock

import "github.com/fwojciec/brochure"

var _ brochure.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of brochure.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	return e.ExtractLinksFn(html)
}
