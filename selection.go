package brochure

// SelectedLink is a single link the relevance filter kept, labeled with
// the role it plays in the brochure (e.g. "about page", "careers page").
type SelectedLink struct {
	Category string `json:"category"`
	URL      string `json:"url"`
}

// LinkSelection holds the links chosen for brochure composition.
// An empty Links slice is a valid selection: none of the candidates
// were worth keeping.
type LinkSelection struct {
	Links []SelectedLink `json:"links"`
}

// Validate returns an error if the selection contains invalid entries.
func (s *LinkSelection) Validate() error {
	for _, link := range s.Links {
		if link.URL == "" {
			return Errorf(EINVALID, "selected link URL required")
		}
	}
	return nil
}
