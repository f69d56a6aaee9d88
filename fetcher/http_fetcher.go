package fetcher

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"wikiviews/config"
	"wikiviews/models"
)

// timestampLayout is the compact YYYYMMDDHH form used by the pageviews API
const timestampLayout = "2006010215"

// HTTPFetcher implements the Fetcher interface against the Wikimedia
// pageviews REST API
type HTTPFetcher struct {
	client    *http.Client
	baseURL   string
	project   string
	access    string
	agents    string
	userAgent string
}

// NewHTTPFetcher creates a new HTTPFetcher from API configuration
func NewHTTPFetcher(cfg config.APIConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		baseURL:   cfg.BaseURL,
		project:   cfg.Project,
		access:    cfg.Access,
		agents:    cfg.Agents,
		userAgent: cfg.UserAgent,
	}
}

type pageviewItem struct {
	Timestamp string `json:"timestamp"`
	Views     int    `json:"views"`
}

type pageviewResponse struct {
	Items []pageviewItem `json:"items"`
}

// FetchPageviews issues a single GET against the per-article endpoint.
// Any non-200 status is treated as "no data" and returns an empty
// slice; the caller decides how to report that. One attempt, no retry.
func (f *HTTPFetcher) FetchPageviews(article string, dates models.DateRange) ([]models.DailyRecord, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s/%s/daily/%s/%s",
		f.baseURL, f.project, f.access, f.agents,
		url.PathEscape(article), dates.APIStart(), dates.APIEnd())

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", article, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pageviews for %s: %w", article, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Pageviews API returned status %d for %s, treating as no data\n", resp.StatusCode, article)
		return nil, nil
	}

	var body pageviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode pageviews response for %s: %w", article, err)
	}

	records := make([]models.DailyRecord, 0, len(body.Items))
	for _, item := range body.Items {
		rec := models.DailyRecord{Views: item.Views}
		if ts, err := time.Parse(timestampLayout, item.Timestamp); err == nil {
			day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
			rec.Date = &day
		}
		// A bad timestamp keeps the record with a nil date; it is
		// excluded later from date-keyed merging.
		records = append(records, rec)
	}

	return records, nil
}
