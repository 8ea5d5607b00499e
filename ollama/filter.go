package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/brochure"
)

// Ensure Filter implements brochure.RelevanceFilter at compile time.
var _ brochure.RelevanceFilter = (*Filter)(nil)

const filterTemperature = 0.4

// linkSystemPrompt instructs the model to pick brochure-relevant links.
const linkSystemPrompt = `You are provided with a list of links found on a webpage.
You are able to decide which of the links would be most relevant to include in a brochure about the company,
such as links to an About page, or a Company page, or Careers/Jobs pages.
Respond only in JSON like this:
{
  "links": [
    {"category": "about page", "url": "https://example.com/about"},
    {"category": "careers page", "url": "https://example.com/careers"}
  ]
}`

// linkSelectionSchema constrains filter replies to the LinkSelection
// wire shape.
var linkSelectionSchema = []byte(`{
  "type": "object",
  "properties": {
    "links": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "category": {"type": "string"},
          "url": {"type": "string", "minLength": 1}
        },
        "required": ["category", "url"]
      }
    }
  },
  "required": ["links"]
}`)

// Filter implements brochure.RelevanceFilter using a local model.
type Filter struct {
	client *Client
}

// NewFilter creates a new Filter.
func NewFilter(client *Client) *Filter {
	return &Filter{client: client}
}

// SelectLinks asks the model which of the page's links belong in a
// company brochure. It sends one request even when the page has no
// links; an empty selection is a valid reply.
func (f *Filter) SelectLinks(ctx context.Context, page *brochure.Page) (*brochure.LinkSelection, error) {
	if page == nil {
		return nil, brochure.Errorf(brochure.EINVALID, "page required")
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	prompt := Prompt{
		System:      linkSystemPrompt,
		User:        BuildLinksPrompt(page),
		Temperature: filterTemperature,
	}

	var selection brochure.LinkSelection
	if err := f.client.generateStructured(ctx, prompt, linkSelectionSchema, &selection); err != nil {
		return nil, err
	}
	if err := selection.Validate(); err != nil {
		return nil, brochure.Errorf(brochure.EUNPROCESSABLE, "invalid link selection: %s", brochure.ErrorMessage(err))
	}

	return &selection, nil
}

// BuildLinksPrompt builds the user prompt listing the page's links.
func BuildLinksPrompt(page *brochure.Page) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here is the list of links on the website of %s. ", page.URL)
	sb.WriteString("Please decide which of these are relevant for a brochure (About, Company, Careers). ")
	sb.WriteString("Ignore email/terms/privacy links.\n\n")
	sb.WriteString(strings.Join(page.Links, "\n"))
	return sb.String()
}
