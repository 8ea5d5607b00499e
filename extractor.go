package brochure

// ExtractResult holds the content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title.
	Title string

	// Text is the visible body content. Non-content elements
	// (scripts, styles, embedded media) have been removed.
	Text string
}

// Extractor extracts visible text from HTML pages.
type Extractor interface {
	// Extract processes raw HTML and returns the visible text.
	// Parsing is best-effort: malformed fragments are ignored and
	// never cause an error.
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor collects hyperlink targets from HTML pages.
type LinkExtractor interface {
	// ExtractLinks returns the target of every anchor element, in
	// document order. Targets are returned verbatim: duplicates and
	// empty strings are preserved, relative URLs are not resolved.
	// Like Extract, it never fails on malformed HTML.
	ExtractLinks(html string) ([]string, error)
}
