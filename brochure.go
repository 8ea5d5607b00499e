// Package brochure generates short markdown company brochures.
// It fetches a company website, extracts visible text and outbound links,
// asks a locally hosted language model which links belong in a brochure,
// fetches those pages, and asks the model to compose the final document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, ollama/).
package brochure
