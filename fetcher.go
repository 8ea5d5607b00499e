package brochure

import "context"

// Fetcher retrieves raw HTML from URLs.
// Implementations may use plain HTTP or browser automation to handle
// JavaScript-rendered content.
type Fetcher interface {
	// Fetch issues a single GET against the URL and returns the
	// response body as HTML. A non-success status is an error.
	// Failures are not retried. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
