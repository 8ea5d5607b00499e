package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/brochure"
)

// Ensure LoggingFilter implements brochure.RelevanceFilter.
var _ brochure.RelevanceFilter = (*LoggingFilter)(nil)

// LoggingFilter wraps a RelevanceFilter with debug logging.
type LoggingFilter struct {
	next   brochure.RelevanceFilter
	logger *slog.Logger
}

// NewLoggingFilter creates a new LoggingFilter.
func NewLoggingFilter(next brochure.RelevanceFilter, logger *slog.Logger) *LoggingFilter {
	return &LoggingFilter{next: next, logger: logger}
}

// SelectLinks delegates to the wrapped filter and logs the operation.
func (f *LoggingFilter) SelectLinks(ctx context.Context, page *brochure.Page) (selection *brochure.LinkSelection, err error) {
	var url string
	var candidates int
	if page != nil {
		url = page.URL
		candidates = len(page.Links)
	}
	defer func(begin time.Time) {
		var selected int
		if selection != nil {
			selected = len(selection.Links)
		}
		f.logger.Info("link selection",
			"url", url,
			"candidates", candidates,
			"selected", selected,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.SelectLinks(ctx, page)
}
