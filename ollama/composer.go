package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/brochure"
)

// Ensure Composer implements brochure.Composer at compile time.
var _ brochure.Composer = (*Composer)(nil)

const composerTemperature = 0.7

// DefaultMaxPromptRunes bounds the composition prompt so it fits the
// context window of small local models.
const DefaultMaxPromptRunes = 5000

// brochureSystemPrompt instructs the model to write the final document.
const brochureSystemPrompt = "You are an assistant that analyzes the contents of several relevant pages from a company website " +
	"and creates a short brochure about the company for prospective customers, investors and recruits. " +
	"Respond in markdown. Include details of company culture, customers and careers/jobs if available."

// Composer implements brochure.Composer using a local model.
type Composer struct {
	client         *Client
	maxPromptRunes int
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithMaxPromptRunes overrides the prompt truncation budget.
// Defaults to DefaultMaxPromptRunes if not specified.
func WithMaxPromptRunes(n int) ComposerOption {
	return func(c *Composer) {
		c.maxPromptRunes = n
	}
}

// NewComposer creates a new Composer.
func NewComposer(client *Client, opts ...ComposerOption) *Composer {
	c := &Composer{
		client:         client,
		maxPromptRunes: DefaultMaxPromptRunes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose asks the model to write a short markdown brochure from the
// request's pages. The completion is returned verbatim, with streamed
// chunks forwarded to the callback as they arrive.
func (c *Composer) Compose(ctx context.Context, req *brochure.BrochureRequest, stream brochure.StreamFunc) (string, error) {
	if req == nil {
		return "", brochure.Errorf(brochure.EINVALID, "request required")
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	prompt := Prompt{
		System:      brochureSystemPrompt,
		User:        BuildBrochurePrompt(req, c.maxPromptRunes),
		Temperature: composerTemperature,
	}

	return c.client.generate(ctx, prompt, stream)
}

// BuildBrochurePrompt builds the composition user prompt, truncated to
// maxRunes. A non-positive maxRunes disables truncation.
func BuildBrochurePrompt(req *brochure.BrochureRequest, maxRunes int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are looking at a company called: %s\n\n", req.CompanyName)
	sb.WriteString("Here are the contents of its landing page and other relevant pages. ")
	sb.WriteString("Use this information to build a short brochure of the company in markdown.\n\n")
	sb.WriteString(brochure.FormatCorpus(req.HomePage, req.Pages))
	return truncateRunes(sb.String(), maxRunes)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
