// Package trafilatura provides a main-content implementation of
// brochure.Extractor. It isolates the substance of a page, dropping
// boilerplate (nav, footer, sidebar, ads), which keeps composition
// prompts focused on what the company actually says about itself.
package trafilatura

import (
	"bytes"
	"errors"
	"strings"

	"github.com/fwojciec/brochure"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements brochure.Extractor at compile time.
var _ brochure.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// The isolated content is rendered as markdown text by the converter.
type Extractor struct {
	converter brochure.Converter
}

// NewExtractor creates a new Extractor.
func NewExtractor(converter brochure.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract processes raw HTML and returns the main content as text.
func (e *Extractor) Extract(rawHTML string) (*brochure.ExtractResult, error) {
	if rawHTML == "" {
		return nil, errors.New("empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var text string
	if result.ContentNode != nil {
		contentHTML, err := renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
		text, err = e.converter.Convert(contentHTML)
		if err != nil {
			return nil, err
		}
	}

	return &brochure.ExtractResult{
		Title: result.Metadata.Title,
		Text:  text,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
