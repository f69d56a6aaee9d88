// Package pipeline wires input normalization, fetching and aggregation
// into a single presentation-agnostic entry point. Shells (CLI, web,
// Telegram) pass parameters in explicitly and render the Result their
// own way.
package pipeline

import (
	"fmt"

	"wikiviews/analyzer"
	"wikiviews/fetcher"
	"wikiviews/models"
	"wikiviews/wikiurl"
)

// Run executes one comparison: normalize inputs, fetch both articles
// sequentially, merge and aggregate. Input errors and empty fetch
// results surface as wrapped sentinel errors before any rendering
// happens.
func Run(f fetcher.Fetcher, params models.Params) (*models.Result, error) {
	titleA, err := wikiurl.ExtractTitle(params.URL1)
	if err != nil {
		return nil, fmt.Errorf("first article: %w", err)
	}

	titleB, err := wikiurl.ExtractTitle(params.URL2)
	if err != nil {
		return nil, fmt.Errorf("second article: %w", err)
	}

	dates, err := wikiurl.ParseDateRange(params.Start, params.End)
	if err != nil {
		return nil, err
	}

	seriesA, err := f.FetchPageviews(titleA, dates)
	if err != nil {
		return nil, err
	}

	seriesB, err := f.FetchPageviews(titleB, dates)
	if err != nil {
		return nil, err
	}

	merged, err := analyzer.Merge(seriesA, seriesB)
	if err != nil {
		return nil, err
	}

	return &models.Result{
		TitleA:    titleA,
		TitleB:    titleB,
		Merged:    merged,
		Quarterly: analyzer.AggregateByQuarter(merged),
	}, nil
}
