package fetcher

import (
	"wikiviews/models"
)

// Fetcher interface defines the contract for pageview retrieval implementations
type Fetcher interface {
	// FetchPageviews retrieves daily pageview records for one article
	// over the given date range
	FetchPageviews(article string, dates models.DateRange) ([]models.DailyRecord, error)
}
