package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestRegisterCollapsesSameDay(t *testing.T) {
	log := DateLog{}

	log.Register(day(10, 9), UserActionOptions())
	log.Register(day(10, 15), UserActionOptions())
	log.Register(day(10, 23), UserActionOptions())

	assert.Len(t, log, 1, "multiple actions on one day collapse into one entry")
	assert.Equal(t, day(10, 9), log[0], "the first action of the day is the one kept")
}

func TestRegisterNewDayAppends(t *testing.T) {
	log := DateLog{}

	log.Register(day(10, 23), UserActionOptions())
	log.Register(day(11, 0), UserActionOptions())

	assert.Len(t, log, 2, "23:59 and 00:01 are different calendar days")
}

func TestRegisterViewsNeverCollapse(t *testing.T) {
	log := DateLog{}

	log.Register(day(10, 9), ViewOptions())
	log.Register(day(10, 9), ViewOptions())
	log.Register(day(10, 9), ViewOptions())

	assert.Len(t, log, 3, "every view counts")
}

func TestRegisterPrunesOldEntries(t *testing.T) {
	now := day(20, 12)
	log := DateLog{
		now.AddDate(0, 0, -RetentionDays-5), // stale
		now.AddDate(0, 0, -RetentionDays),   // exactly at cutoff, stale
		now.AddDate(0, 0, -RetentionDays+1), // inside the window
		now.AddDate(0, 0, -1),
	}

	log.Register(now, UserActionOptions())

	assert.Len(t, log, 3)
	assert.Equal(t, now.AddDate(0, 0, -RetentionDays+1), log[0])
}

func TestPruneHandlesUnorderedEntries(t *testing.T) {
	now := day(20, 12)
	log := DateLog{
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -RetentionDays-1), // stale entry out of order
		now.AddDate(0, 0, -2),
	}

	log.Prune(now)

	assert.Len(t, log, 2)
	for _, entry := range log {
		assert.True(t, entry.After(now.AddDate(0, 0, -RetentionDays)))
	}
}

func TestCountSince(t *testing.T) {
	log := DateLog{day(10, 9), day(11, 9), day(12, 9)}

	assert.Equal(t, 3, log.CountSince(day(10, 9)), "boundary entry is included")
	assert.Equal(t, 2, log.CountSince(day(10, 10)))
	assert.Equal(t, 0, log.CountSince(day(13, 0)))
}

func TestByDaySince(t *testing.T) {
	log := DateLog{day(10, 9), day(10, 15), day(11, 9), day(9, 9)}

	buckets := log.ByDaySince(day(10, 0))

	assert.Equal(t, map[string]int{
		"2026-03-10": 2,
		"2026-03-11": 1,
	}, buckets)
}
