package main

import (
	"context"
	"io"

	"github.com/fwojciec/brochure/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Pipeline *pipeline.Pipeline
}

// GenerateCmd handles the brochure generation operation.
type GenerateCmd struct {
	URL     string
	Name    string
	Stream  bool
	Verbose bool
}
