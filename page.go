package brochure

// Page represents a fetched and parsed web page.
// Pages are immutable after extraction and discarded at process exit.
type Page struct {
	URL   string
	Title string

	// Text is the visible body content with scripts, styles and
	// embedded media stripped.
	Text string

	// Links holds every anchor target in document order, verbatim:
	// duplicates and empty targets are preserved, relative URLs are
	// not resolved.
	Links []string

	// ContentHash is a hash of Text, recorded for provenance.
	ContentHash string
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	return nil
}

// Contents renders the page as a prompt section.
// Uses the title if available, falls back to the URL.
func (p *Page) Contents() string {
	title := p.Title
	if title == "" {
		title = p.URL
	}
	return "Webpage Title:\n" + title + "\nWebpage Contents:\n" + p.Text + "\n\n"
}
