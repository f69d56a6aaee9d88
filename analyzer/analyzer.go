package analyzer

import (
	"errors"
	"sort"
	"time"

	"wikiviews/models"
)

// ErrEmptyResult indicates that one or both articles produced no records.
var ErrEmptyResult = errors.New("no data returned from the pageviews API")

// Merge outer-joins two daily series on date, sorted ascending. A date
// present in only one series leaves the other column nil. Records whose
// date failed to parse upstream carry a nil date and are skipped here.
func Merge(seriesA, seriesB []models.DailyRecord) ([]models.MergedRow, error) {
	if len(seriesA) == 0 || len(seriesB) == 0 {
		return nil, ErrEmptyResult
	}

	byDate := make(map[time.Time]*models.MergedRow)

	for _, rec := range seriesA {
		if rec.Date == nil {
			continue
		}
		row := rowFor(byDate, *rec.Date)
		views := rec.Views
		row.ViewsA = &views
	}

	for _, rec := range seriesB {
		if rec.Date == nil {
			continue
		}
		row := rowFor(byDate, *rec.Date)
		views := rec.Views
		row.ViewsB = &views
	}

	// Every record may carry a nil date when all timestamps were
	// malformed; a rowless merge is as empty as a missing series.
	if len(byDate) == 0 {
		return nil, ErrEmptyResult
	}

	merged := make([]models.MergedRow, 0, len(byDate))
	for _, row := range byDate {
		merged = append(merged, *row)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})

	return merged, nil
}

func rowFor(byDate map[time.Time]*models.MergedRow, date time.Time) *models.MergedRow {
	row, ok := byDate[date]
	if !ok {
		row = &models.MergedRow{Date: date}
		byDate[date] = row
	}
	return row
}

// AggregateByQuarter groups merged rows by calendar quarter and
// computes each article's mean daily views per quarter. Each column's
// mean covers only its own non-nil values, so a date missing for one
// article never skews the other's mean. Result is sorted chronologically.
func AggregateByQuarter(merged []models.MergedRow) []models.QuarterlyAggregate {
	type quarterKey struct {
		year    int
		quarter int
	}
	type quarterSums struct {
		sumA   float64
		countA int
		sumB   float64
		countB int
	}

	groups := make(map[quarterKey]*quarterSums)

	for _, row := range merged {
		key := quarterKey{
			year:    row.Date.Year(),
			quarter: (int(row.Date.Month())-1)/3 + 1,
		}
		sums, ok := groups[key]
		if !ok {
			sums = &quarterSums{}
			groups[key] = sums
		}
		if row.ViewsA != nil {
			sums.sumA += float64(*row.ViewsA)
			sums.countA++
		}
		if row.ViewsB != nil {
			sums.sumB += float64(*row.ViewsB)
			sums.countB++
		}
	}

	aggregates := make([]models.QuarterlyAggregate, 0, len(groups))
	for key, sums := range groups {
		agg := models.QuarterlyAggregate{Year: key.year, Quarter: key.quarter}
		if sums.countA > 0 {
			mean := sums.sumA / float64(sums.countA)
			agg.MeanA = &mean
		}
		if sums.countB > 0 {
			mean := sums.sumB / float64(sums.countB)
			agg.MeanB = &mean
		}
		aggregates = append(aggregates, agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].Year != aggregates[j].Year {
			return aggregates[i].Year < aggregates[j].Year
		}
		return aggregates[i].Quarter < aggregates[j].Quarter
	})

	return aggregates
}
