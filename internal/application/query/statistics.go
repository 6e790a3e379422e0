// Package query contains read operations (CQRS - Queries).
//
// The statistics queries follow one shape: compute the analysis window,
// fetch day-bucketed series from the stats store (through the day-boundary
// cache), and merge them into a dashboard table.
package query

import (
	"context"
	"time"

	"github.com/eduhub/course-hub/internal/domain/statistics"
	"github.com/eduhub/course-hub/internal/infrastructure/persistence/redis"
)

// StatsStore answers the aggregate questions behind the dashboards.
// Implementations live in infrastructure/persistence; every method reads
// committed state only and is safe to memoize for the rest of the day.
type StatsStore interface {
	// EnrollmentsByDay buckets enrollments into the given courses by day.
	EnrollmentsByDay(ctx context.Context, courseIDs []string, since time.Time) ([]statistics.TimeValue, error)

	// EarningsByDay buckets the summed enrollment cost of the given courses by day.
	EarningsByDay(ctx context.Context, courseIDs []string, since time.Time) ([]statistics.TimeValue, error)

	// UserActivityByDay counts distinct active users per day.
	UserActivityByDay(ctx context.Context, since time.Time) ([]statistics.TimeValue, error)

	// NewUsersByDay buckets user registrations by day.
	NewUsersByDay(ctx context.Context, since time.Time) ([]statistics.TimeValue, error)

	// NewCoursesByDay buckets course creations by day.
	NewCoursesByDay(ctx context.Context, since time.Time) ([]statistics.TimeValue, error)

	// UsersByRole counts users per platform role.
	UsersByRole(ctx context.Context) ([]statistics.GroupCount, error)

	// CoursesByType counts courses per course type.
	CoursesByType(ctx context.Context) ([]statistics.GroupCount, error)

	// TotalEnrollments counts all enrollments into the given courses,
	// regardless of the analysis window.
	TotalEnrollments(ctx context.Context, courseIDs []string) (int, error)
}

// cached runs compute through the stats cache under the given key. A nil
// cache disables memoization; the query handlers work the same either way.
func cached[T any](ctx context.Context, cache *redis.StatsCache, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	if cache == nil {
		return compute(ctx)
	}
	return redis.GetOrCompute(ctx, cache, key, compute)
}
