package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func TestStartDateDefaultWindow(t *testing.T) {
	got := StartDate(now, nil, nil)
	assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), got,
		"no range and no creation date means now-90d at midnight")
}

func TestStartDateCreatedAtOverridesDefault(t *testing.T) {
	createdAt := time.Date(2026, 5, 1, 9, 15, 0, 0, time.UTC)
	got := StartDate(now, nil, timePtr(createdAt))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), got,
		"series never reach before the entity existed")
}

func TestStartDateRangeNarrowsWindow(t *testing.T) {
	got := StartDate(now, intPtr(7), nil)
	assert.Equal(t, time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC), got)
}

func TestStartDateRangeNeverWidensPastCreation(t *testing.T) {
	createdAt := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	got := StartDate(now, intPtr(30), timePtr(createdAt))
	assert.Equal(t, createdAt, got,
		"a 30 day range cannot reach before a 5 day old entity's creation")
}

func TestStartDateInvalidRangeIgnored(t *testing.T) {
	for _, rangeDays := range []int{-1, 91, 100000} {
		got := StartDate(now, intPtr(rangeDays), nil)
		assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), got,
			"out-of-range values fall back to the default window")
	}
}

func TestStartDateZeroRangeIsToday(t *testing.T) {
	got := StartDate(now, intPtr(0), nil)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestMergeSeries(t *testing.T) {
	rows := MergeSeries(map[string][]TimeValue{
		"enrollments": {
			{Time: "2026-06-10", Value: 3},
			{Time: "2026-06-12", Value: 1},
		},
		"views": {
			{Time: "2026-06-09", Value: 20},
			{Time: "2026-06-10", Value: 15},
		},
	})

	assert.Equal(t, []Row{
		{Date: "2026-06-09", Values: map[string]float64{"views": 20}},
		{Date: "2026-06-10", Values: map[string]float64{"enrollments": 3, "views": 15}},
		{Date: "2026-06-12", Values: map[string]float64{"enrollments": 1}},
	}, rows)

	// A series with no bucket for a date is absent, not zero.
	_, hasEnrollments := rows[0].Values["enrollments"]
	assert.False(t, hasEnrollments)
}

func TestMergeSeriesEmpty(t *testing.T) {
	assert.Empty(t, MergeSeries(nil))
	assert.Empty(t, MergeSeries(map[string][]TimeValue{"views": {}}))
}

func TestSeriesFromBuckets(t *testing.T) {
	series := SeriesFromBuckets(map[string]int{
		"2026-06-12": 1,
		"2026-06-09": 4,
		"2026-06-10": 2,
	})

	assert.Equal(t, []TimeValue{
		{Time: "2026-06-09", Value: 4},
		{Time: "2026-06-10", Value: 2},
		{Time: "2026-06-12", Value: 1},
	}, series)
}

func TestSumValues(t *testing.T) {
	series := []TimeValue{
		{Time: "2026-06-09", Value: 49.99},
		{Time: "2026-06-10", Value: 0},
		{Time: "2026-06-11", Value: 25.01},
	}
	assert.InDelta(t, 75.0, SumValues(series), 1e-9)
	assert.Zero(t, SumValues(nil))
}
