package brochure

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., main content isolated by
	// an Extractor implementation).
	Convert(html string) (string, error)
}
