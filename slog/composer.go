package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/brochure"
)

// Ensure LoggingComposer implements brochure.Composer.
var _ brochure.Composer = (*LoggingComposer)(nil)

// LoggingComposer wraps a Composer with debug logging.
type LoggingComposer struct {
	next   brochure.Composer
	logger *slog.Logger
}

// NewLoggingComposer creates a new LoggingComposer.
func NewLoggingComposer(next brochure.Composer, logger *slog.Logger) *LoggingComposer {
	return &LoggingComposer{next: next, logger: logger}
}

// Compose delegates to the wrapped composer and logs the operation.
func (c *LoggingComposer) Compose(ctx context.Context, req *brochure.BrochureRequest, stream brochure.StreamFunc) (text string, err error) {
	var company string
	var pages int
	if req != nil {
		company = req.CompanyName
		pages = len(req.Pages)
	}
	defer func(begin time.Time) {
		c.logger.Info("brochure composition",
			"company", company,
			"pages", pages,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Compose(ctx, req, stream)
}
