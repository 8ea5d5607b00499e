package mock

import (
	"context"

	"github.com/fwojciec/brochure"
)

var _ brochure.Composer = (*Composer)(nil)

// Composer is a mock implementation of brochure.Composer.
type Composer struct {
	ComposeFn func(ctx context.Context, req *brochure.BrochureRequest, stream brochure.StreamFunc) (string, error)
}

func (c *Composer) Compose(ctx context.Context, req *brochure.BrochureRequest, stream brochure.StreamFunc) (string, error) {
	return c.ComposeFn(ctx, req, stream)
}
