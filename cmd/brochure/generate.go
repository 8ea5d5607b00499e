package main

import (
	"fmt"

	"github.com/fwojciec/brochure"
	"github.com/fwojciec/brochure/pipeline"
)

// Run executes the generate command. The brochure itself is the only
// thing written to stdout; progress and diagnostics go to stderr.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	progress := func(event pipeline.ProgressEvent) {
		switch event.Stage {
		case pipeline.StageHomeFetched:
			fmt.Fprintf(deps.Stderr, "Fetched %s\n", event.URL)
		case pipeline.StageLinksSelected:
			fmt.Fprintf(deps.Stderr, "Selected %d links\n", event.Total)
		case pipeline.StagePageFetched:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n", event.Completed, event.Total, pipeline.TruncateURL(event.URL, 60))
		case pipeline.StagePageSkipped:
			fmt.Fprintf(deps.Stderr, "skip %s: %v\n", event.URL, event.Error)
		}
	}

	var stream brochure.StreamFunc
	if c.Stream {
		stream = func(chunk string) {
			fmt.Fprint(deps.Stdout, chunk)
		}
	}

	result, err := deps.Pipeline.Run(deps.Ctx, c.Name, c.URL, stream, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", brochure.ErrorMessage(err))
		return err
	}

	// Streamed output is already on stdout; close the line either way.
	if c.Stream {
		fmt.Fprintln(deps.Stdout)
	} else {
		fmt.Fprintln(deps.Stdout, result.Brochure)
	}

	if result.PagesFailed > 0 {
		fmt.Fprintf(deps.Stderr, "Warning: %d of %d selected pages could not be fetched\n",
			result.PagesFailed, result.PagesFailed+result.PagesFetched)
	}

	if c.Verbose {
		for _, source := range result.Sources {
			fmt.Fprintf(deps.Stderr, "source %s %s\n", source.ContentHash, source.URL)
		}
	}

	fmt.Fprintf(deps.Stderr, "Generated brochure from %d pages (%s)\n",
		len(result.Sources), pipeline.FormatBytes(result.Bytes))

	return nil
}
