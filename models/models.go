package models

import (
	"fmt"
	"time"
)

// Params holds the four user-supplied inputs for one comparison run.
type Params struct {
	URL1  string
	URL2  string
	Start string
	End   string
}

// DateRange is a pair of calendar dates. Start may exceed End; the
// upstream API simply returns no items in that case.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// APIStart formats the range start in the compact form the pageviews
// API expects (YYYYMMDD plus a fixed "00" hour).
func (r DateRange) APIStart() string {
	return r.Start.Format("20060102") + "00"
}

// APIEnd formats the range end in the compact API form.
func (r DateRange) APIEnd() string {
	return r.End.Format("20060102") + "00"
}

// DailyRecord is one (article, day) pageview count. Date is nil when
// the upstream timestamp could not be parsed; Views defaults to zero
// when the field is missing from the response.
type DailyRecord struct {
	Date  *time.Time
	Views int
}

// MergedRow is one date of the outer-joined series. A views pointer is
// nil when that article has no record for the date.
type MergedRow struct {
	Date   time.Time
	ViewsA *int
	ViewsB *int
}

// QuarterlyAggregate holds the per-quarter mean of daily views for both
// articles. A mean is nil when the quarter has no values for that article.
type QuarterlyAggregate struct {
	Year    int
	Quarter int
	MeanA   *float64
	MeanB   *float64
}

// Label returns the quarter label used on the chart axis, e.g. "Q1 2024".
func (q QuarterlyAggregate) Label() string {
	return fmt.Sprintf("Q%d %d", q.Quarter, q.Year)
}

// Result is the output of one pipeline run.
type Result struct {
	TitleA    string
	TitleB    string
	Merged    []MergedRow
	Quarterly []QuarterlyAggregate
}
