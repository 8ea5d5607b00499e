package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/brochure"
)

// Ensure LinkExtractor implements brochure.LinkExtractor at compile time.
var _ brochure.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor collects anchor targets from HTML.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the href of every anchor element in document
// order. Values are kept verbatim: duplicates and empty targets are
// preserved and relative URLs are not resolved, so the result has one
// entry per anchor.
func (e *LinkExtractor) ExtractLinks(rawHTML string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, brochure.Errorf(brochure.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []string
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, href)
	})

	return links, nil
}
