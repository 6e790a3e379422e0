// Package activity contains the date-stamped event log used for activity
// tracking and view counting. The same structure backs two distinct
// semantics: per-user "last action" logs (one entry per calendar day,
// pruned to a 90 day window) and per-course view logs (every view counts,
// retained indefinitely on the serving path).
// This is a pure domain layer with zero external dependencies.
package activity

import (
	"time"

	"github.com/eduhub/course-hub/pkg/timeutil"
)

// RetentionDays is the retention window for pruned logs.
const RetentionDays = 90

// DateLog is an append-only sequence of action timestamps.
// Entries are expected in roughly ascending order but this is not guaranteed.
type DateLog []time.Time

// RegisterOptions controls how an action is recorded.
type RegisterOptions struct {
	// CollapseSameDay skips the append when the most recent entry falls on
	// the same UTC calendar day as the new one.
	CollapseSameDay bool

	// PruneAfterWrite drops entries older than the retention window after
	// the append.
	PruneAfterWrite bool
}

// UserActionOptions is the configuration for the authenticated-request
// activity log: at most one entry per day, bounded history.
func UserActionOptions() RegisterOptions {
	return RegisterOptions{CollapseSameDay: true, PruneAfterWrite: true}
}

// ViewOptions is the configuration for view counting: every view counts and
// the history is intentionally retained.
func ViewOptions() RegisterOptions {
	return RegisterOptions{CollapseSameDay: false, PruneAfterWrite: false}
}

// Register records an action at the given time according to opts.
func (l *DateLog) Register(when time.Time, opts RegisterOptions) {
	entries := *l
	if len(entries) == 0 || !opts.CollapseSameDay || !timeutil.IsSameDay(when, entries[len(entries)-1]) {
		entries = append(entries, when)
	}

	if opts.PruneAfterWrite {
		entries = prune(entries, when)
	}
	*l = entries
}

// RegisterNow records an action at the current time.
func (l *DateLog) RegisterNow(opts RegisterOptions) {
	l.Register(timeutil.Now(), opts)
}

// Prune removes entries older than the retention window relative to now.
func (l *DateLog) Prune(now time.Time) {
	*l = prune(*l, now)
}

// prune removes in place all entries at or before now-90d, scanning from the
// tail to minimize shifts since entries are mostly ascending.
func prune(entries []time.Time, now time.Time) []time.Time {
	cutoff := now.AddDate(0, 0, -RetentionDays)
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].After(cutoff) {
			entries = append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}

// CountSince returns the number of entries at or after the given time.
func (l DateLog) CountSince(since time.Time) int {
	count := 0
	for _, t := range l {
		if !t.Before(since) {
			count++
		}
	}
	return count
}

// ByDaySince buckets entries at or after since per UTC calendar day.
// Keys are YYYY-MM-DD date strings.
func (l DateLog) ByDaySince(since time.Time) map[string]int {
	buckets := make(map[string]int)
	for _, t := range l {
		if t.Before(since) {
			continue
		}
		buckets[timeutil.FormatDateStr(t)]++
	}
	return buckets
}
