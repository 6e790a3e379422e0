// Package statistics contains the pure parts of the statistics query
// engine: the analysis window computation and the merging of day-bucketed
// series into dashboard tables.
// This is a pure domain layer with zero external dependencies.
package statistics

import (
	"sort"
	"time"

	"github.com/eduhub/course-hub/pkg/timeutil"
)

// DefaultWindowDays is the default analysis window when no range is given.
const DefaultWindowDays = 90

// TimeValue is one bucket of a day-granular time series.
type TimeValue struct {
	Time  string  `json:"time"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// GroupCount is one bucket of a grouped count (users per role, courses per type).
type GroupCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// StartDate computes the beginning of the analysis window.
//
// The base start is createdAt when given (series never reach before the
// entity existed), otherwise now-90d. A valid range (0..90 days) moves the
// start later, never earlier; range values outside [0,90] are treated as
// absent. The result is truncated to midnight UTC.
func StartDate(now time.Time, rangeDays *int, createdAt *time.Time) time.Time {
	start := timeutil.DaysAgo(now, DefaultWindowDays)
	if createdAt != nil {
		start = *createdAt
	}

	if rangeDays != nil && *rangeDays >= 0 && *rangeDays <= DefaultWindowDays {
		rangeStart := timeutil.StartOfDay(timeutil.DaysAgo(now, *rangeDays))
		start = timeutil.Later(start, rangeStart)
	}

	return timeutil.StartOfDay(start)
}

// Row is one date of a merged dashboard table. A series that has no bucket
// for the date is simply absent from Values, not zero.
type Row struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// MergeSeries merges named day-bucketed series into one table keyed by date.
// Dates present in any series appear exactly once; the result is sorted
// ascending by parsed date.
func MergeSeries(series map[string][]TimeValue) []Row {
	byDate := make(map[string]*Row)
	for name, values := range series {
		for _, tv := range values {
			row, ok := byDate[tv.Time]
			if !ok {
				row = &Row{Date: tv.Time, Values: make(map[string]float64)}
				byDate[tv.Time] = row
			}
			row.Values[name] = tv.Value
		}
	}

	rows := make([]Row, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, _ := timeutil.ParseDate(rows[i].Date)
		b, _ := timeutil.ParseDate(rows[j].Date)
		return a.Before(b)
	})
	return rows
}

// SeriesFromBuckets converts a date-string bucket map into a sorted series.
func SeriesFromBuckets(buckets map[string]int) []TimeValue {
	series := make([]TimeValue, 0, len(buckets))
	for date, count := range buckets {
		series = append(series, TimeValue{Time: date, Value: float64(count)})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Time < series[j].Time
	})
	return series
}

// SumValues totals a series, e.g. lifetime earnings from a daily series.
func SumValues(series []TimeValue) float64 {
	total := 0.0
	for _, tv := range series {
		total += tv.Value
	}
	return total
}
