// Package goquery provides HTML parsing implementations of
// brochure.Extractor and brochure.LinkExtractor.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/brochure"
	"golang.org/x/net/html"
)

// Ensure Extractor implements brochure.Extractor at compile time.
var _ brochure.Extractor = (*Extractor)(nil)

// nonContentSelector matches elements whose contents never belong in
// visible text.
const nonContentSelector = "script, style, img, input, noscript"

// Extractor extracts the title and visible body text of a page.
// Parsing is lenient: malformed HTML is repaired rather than rejected.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page title and visible text.
// Script, style, img, input and noscript subtrees are dropped; the
// remaining text nodes are trimmed and joined with newlines.
func (e *Extractor) Extract(rawHTML string) (*brochure.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, brochure.Errorf(brochure.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	body := doc.Find("body")
	body.Find(nonContentSelector).Remove()

	var segments []string
	for _, node := range body.Nodes {
		collectText(node, &segments)
	}

	return &brochure.ExtractResult{
		Title: title,
		Text:  strings.Join(segments, "\n"),
	}, nil
}

// collectText walks the node tree appending trimmed text segments.
func collectText(n *html.Node, segments *[]string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*segments = append(*segments, text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, segments)
	}
}
