package brochure

import "strings"

// FormatCorpus renders the fetched pages as the source-material section
// of the composition prompt. The home page comes first under a
// "Landing page:" header; each selected page follows under a "URL:"
// header, in selection order.
func FormatCorpus(home *Page, pages []*Page) string {
	var sb strings.Builder
	sb.WriteString("Landing page:\n")
	sb.WriteString(home.Contents())
	for _, page := range pages {
		sb.WriteString("URL: " + page.URL + "\n")
		sb.WriteString(page.Contents())
	}
	return strings.TrimRight(sb.String(), "\n")
}
