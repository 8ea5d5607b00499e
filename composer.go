package brochure

import "context"

// StreamFunc receives completion chunks as the model produces them.
type StreamFunc func(chunk string)

// BrochureRequest carries the source material for brochure composition.
type BrochureRequest struct {
	CompanyName string
	HomePage    *Page

	// Pages are the selected pages that fetched successfully, in
	// selection order.
	Pages []*Page
}

// Validate returns an error if the request is missing required fields.
func (r *BrochureRequest) Validate() error {
	if r.CompanyName == "" {
		return Errorf(EINVALID, "company name required")
	}
	if r.HomePage == nil {
		return Errorf(EINVALID, "home page required")
	}
	return nil
}

// Composer generates the final brochure document.
type Composer interface {
	// Compose asks a language model to write a short markdown brochure
	// from the request's pages. The stream callback, if non-nil,
	// receives chunks as they arrive. The returned document is the
	// model's completion, passed through verbatim.
	Compose(ctx context.Context, req *BrochureRequest, stream StreamFunc) (string, error)
}
