// Package pipeline provides brochure generation orchestration.
// It coordinates page fetching, link selection, and brochure
// composition for a company website.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/brochure"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of selected pages fetched in parallel.
const DefaultConcurrency = 3

// Pipeline orchestrates the generation of a company brochure.
type Pipeline struct {
	Fetcher     brochure.Fetcher
	Extractor   brochure.Extractor
	Links       brochure.LinkExtractor
	Filter      brochure.RelevanceFilter
	Composer    brochure.Composer
	Concurrency int
}

// Result holds the outcome of a pipeline run.
type Result struct {
	Brochure     string
	Selection    *brochure.LinkSelection
	Sources      []Source
	PagesFetched int
	PagesFailed  int
	Bytes        int
}

// Source records the provenance of a page that contributed to the brochure.
type Source struct {
	URL         string
	ContentHash string
	FetchedAt   time.Time
}

// ProgressEvent reports progress during a pipeline run.
type ProgressEvent struct {
	Stage     Stage
	Completed int
	Total     int
	URL       string
	Error     error
}

// Stage indicates the pipeline stage a progress event belongs to.
type Stage int

const (
	StageHomeFetched Stage = iota
	StageLinksSelected
	StagePageFetched
	StagePageSkipped
	StagePagesFetched
	StageBrochureGenerated
)

// ProgressFunc is a callback for reporting pipeline progress.
type ProgressFunc func(event ProgressEvent)

// fetchResult holds the outcome of fetching a single selected page.
type fetchResult struct {
	position  int
	url       string
	page      *brochure.Page
	fetchedAt time.Time
	err       error
}

// Run generates a brochure for the company at seedURL. The home page is
// fetched first; its links are sent to the relevance filter in a single
// model call, the selected pages are fetched concurrently, and the
// combined corpus is handed to the composer. A home page or filter
// failure aborts the run; a selected page that fails to fetch is dropped
// from the corpus and reported through the progress callback. The stream
// callback, if provided, receives brochure chunks as the model produces
// them.
func (p *Pipeline) Run(ctx context.Context, companyName, seedURL string, stream brochure.StreamFunc, progress ProgressFunc) (*Result, error) {
	if companyName == "" {
		return nil, brochure.Errorf(brochure.EINVALID, "company name required")
	}
	if seedURL == "" {
		return nil, brochure.Errorf(brochure.EINVALID, "seed URL required")
	}

	// Fetch the home page; there is no brochure without it.
	home, homeFetchedAt, err := p.fetchPage(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch home page: %w", err)
	}

	if progress != nil {
		progress(ProgressEvent{
			Stage: StageHomeFetched,
			URL:   seedURL,
		})
	}

	// Ask the model which links matter; one call covers the whole list.
	selection, err := p.Filter.SelectLinks(ctx, home)
	if err != nil {
		return nil, fmt.Errorf("select links: %w", err)
	}

	if progress != nil {
		progress(ProgressEvent{
			Stage: StageLinksSelected,
			Total: len(selection.Links),
			URL:   seedURL,
		})
	}

	pages, sources, failedCount := p.fetchSelected(ctx, seedURL, selection, progress)

	if progress != nil {
		progress(ProgressEvent{
			Stage:     StagePagesFetched,
			Completed: len(pages),
			Total:     len(selection.Links),
		})
	}

	req := &brochure.BrochureRequest{
		CompanyName: companyName,
		HomePage:    home,
		Pages:       pages,
	}

	text, err := p.Composer.Compose(ctx, req, stream)
	if err != nil {
		return nil, fmt.Errorf("compose brochure: %w", err)
	}

	if progress != nil {
		progress(ProgressEvent{
			Stage: StageBrochureGenerated,
		})
	}

	totalBytes := len(home.Text)
	for _, page := range pages {
		totalBytes += len(page.Text)
	}

	result := &Result{
		Brochure:     text,
		Selection:    selection,
		PagesFetched: len(pages),
		PagesFailed:  failedCount,
		Bytes:        totalBytes,
	}
	result.Sources = append(result.Sources, Source{
		URL:         home.URL,
		ContentHash: home.ContentHash,
		FetchedAt:   homeFetchedAt,
	})
	result.Sources = append(result.Sources, sources...)

	return result, nil
}

// fetchSelected fetches the selected pages concurrently, preserving
// selection order in the returned slices. Pages that fail are dropped.
func (p *Pipeline) fetchSelected(ctx context.Context, seedURL string, selection *brochure.LinkSelection, progress ProgressFunc) ([]*brochure.Page, []Source, int) {
	total := len(selection.Links)
	if total == 0 {
		return nil, nil, 0
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan fetchResult, total)

	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, link := range selection.Links {
			i, link := i, link
			g.Go(func() error {
				target := resolveURL(seedURL, link.URL)
				result := fetchResult{position: i, url: target}
				result.page, result.fetchedAt, result.err = p.fetchPage(gctx, target)
				resultCh <- result
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in order
	results := make([]fetchResult, total)
	var failedCount int
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if result.err != nil {
			failedCount++
			if progress != nil {
				progress(ProgressEvent{
					Stage:     StagePageSkipped,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
					Error:     result.err,
				})
			}
		} else {
			if progress != nil {
				progress(ProgressEvent{
					Stage:     StagePageFetched,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
				})
			}
		}
	}

	pages := make([]*brochure.Page, 0, total)
	sources := make([]Source, 0, total)
	for _, result := range results {
		if result.err != nil {
			continue
		}
		pages = append(pages, result.page)
		sources = append(sources, Source{
			URL:         result.url,
			ContentHash: result.page.ContentHash,
			FetchedAt:   result.fetchedAt,
		})
	}

	return pages, sources, failedCount
}

// fetchPage fetches a URL and parses it into a Page.
func (p *Pipeline) fetchPage(ctx context.Context, pageURL string) (*brochure.Page, time.Time, error) {
	html, err := p.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt := time.Now()

	extracted, err := p.Extractor.Extract(html)
	if err != nil {
		return nil, time.Time{}, err
	}

	links, err := p.Links.ExtractLinks(html)
	if err != nil {
		return nil, time.Time{}, err
	}

	return &brochure.Page{
		URL:         pageURL,
		Title:       extracted.Title,
		Text:        extracted.Text,
		Links:       links,
		ContentHash: computeHash(extracted.Text),
	}, fetchedAt, nil
}

// resolveURL resolves a selected link against the seed URL. The model
// frequently echoes relative paths back from the link list.
func resolveURL(seedURL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	base, err := url.Parse(seedURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
