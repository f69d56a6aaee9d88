package pipeline

import (
	"errors"
	"testing"
	"time"

	"wikiviews/analyzer"
	"wikiviews/models"
	"wikiviews/wikiurl"
)

// stubFetcher returns canned series keyed by article title
type stubFetcher struct {
	series map[string][]models.DailyRecord
	calls  []string
}

func (s *stubFetcher) FetchPageviews(article string, dates models.DateRange) ([]models.DailyRecord, error) {
	s.calls = append(s.calls, article)
	return s.series[article], nil
}

func record(y int, m time.Month, d, views int) models.DailyRecord {
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return models.DailyRecord{Date: &date, Views: views}
}

func validParams() models.Params {
	return models.Params{
		URL1:  "https://en.wikipedia.org/wiki/Coffee",
		URL2:  "https://en.wikipedia.org/wiki/Tea",
		Start: "2024-01-01",
		End:   "2024-01-03",
	}
}

func TestRunEndToEnd(t *testing.T) {
	f := &stubFetcher{series: map[string][]models.DailyRecord{
		"Coffee": {
			record(2024, 1, 1, 10),
			record(2024, 1, 2, 20),
			record(2024, 1, 3, 30),
		},
		"Tea": {
			record(2024, 1, 2, 5),
			record(2024, 1, 3, 15),
		},
	}}

	result, err := Run(f, validParams())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.TitleA != "Coffee" || result.TitleB != "Tea" {
		t.Errorf("titles = (%q, %q), want (Coffee, Tea)", result.TitleA, result.TitleB)
	}

	if len(f.calls) != 2 || f.calls[0] != "Coffee" || f.calls[1] != "Tea" {
		t.Errorf("fetch calls = %v, want [Coffee Tea]", f.calls)
	}

	if len(result.Merged) != 3 {
		t.Fatalf("merged series has %d rows, want 3", len(result.Merged))
	}

	first := result.Merged[0]
	if first.Date.Day() != 1 || first.ViewsA == nil || *first.ViewsA != 10 || first.ViewsB != nil {
		t.Errorf("Jan 1 row = (%v, %v), want (10, missing)", first.ViewsA, first.ViewsB)
	}

	if len(result.Quarterly) != 1 {
		t.Fatalf("quarterly has %d groups, want 1", len(result.Quarterly))
	}
	q := result.Quarterly[0]
	if q.Label() != "Q1 2024" {
		t.Errorf("quarter label = %q, want %q", q.Label(), "Q1 2024")
	}
	if q.MeanA == nil || *q.MeanA != 20 {
		t.Errorf("MeanA = %v, want 20", q.MeanA)
	}
	if q.MeanB == nil || *q.MeanB != 10 {
		t.Errorf("MeanB = %v, want 10", q.MeanB)
	}
}

func TestRunEmptyFetchResult(t *testing.T) {
	// One article answers, the other comes back empty (e.g. upstream 404)
	f := &stubFetcher{series: map[string][]models.DailyRecord{
		"Coffee": {record(2024, 1, 1, 10)},
	}}

	result, err := Run(f, validParams())
	if result != nil {
		t.Error("Run() should not produce a result when one series is empty")
	}
	if !errors.Is(err, analyzer.ErrEmptyResult) {
		t.Errorf("Run() error = %v, want ErrEmptyResult", err)
	}
}

func TestRunInvalidInputsHaltBeforeFetching(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Params)
		wantErr error
	}{
		{"bad first URL", func(p *models.Params) { p.URL1 = "https://example.com/Coffee" }, wikiurl.ErrInvalidURL},
		{"bad second URL", func(p *models.Params) { p.URL2 = "https://en.wikipedia.org/about" }, wikiurl.ErrInvalidURL},
		{"bad start date", func(p *models.Params) { p.Start = "01/01/2024" }, wikiurl.ErrDateFormat},
		{"bad end date", func(p *models.Params) { p.End = "2024-01-99" }, wikiurl.ErrDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{}
			params := validParams()
			tt.mutate(&params)

			if _, err := Run(f, params); !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if len(f.calls) != 0 {
				t.Errorf("fetcher was called %d times, want 0 (input errors halt before any network call)", len(f.calls))
			}
		})
	}
}

func TestRunFetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	f := &failingFetcher{err: wantErr}

	if _, err := Run(f, validParams()); !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

type failingFetcher struct {
	err error
}

func (f *failingFetcher) FetchPageviews(article string, dates models.DateRange) ([]models.DailyRecord, error) {
	return nil, f.err
}
