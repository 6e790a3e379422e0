package query

import (
	"context"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/statistics"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/internal/infrastructure/persistence/redis"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER STATISTICS QUERY
// Cross-course dashboard for a teacher: earnings and enrollments across all
// of the teacher's courses, bucketed by day, plus lifetime totals.
// ══════════════════════════════════════════════════════════════════════════════

// GetTeacherStatisticsQuery identifies the teacher and the optional window.
type GetTeacherStatisticsQuery struct {
	// TeacherID is the teacher to report on.
	TeacherID string

	// RangeDays narrows the analysis window when in 0..90.
	RangeDays *int
}

// Validate validates the query.
func (q GetTeacherStatisticsQuery) Validate() error {
	if q.TeacherID == "" {
		return shared.NewDomainError("statistics", "GetTeacherStatistics", shared.ErrInvalidID, "teacher ID is required")
	}
	return nil
}

// TeacherStatistics is the teacher dashboard payload.
type TeacherStatistics struct {
	// Table merges the "earned" and "enrollments" day series.
	Table []statistics.Row `json:"table"`

	// TotalEnrollments is the lifetime enrollment count across all courses.
	TotalEnrollments int `json:"totalEnrollments"`

	// TotalEarned is the lifetime earnings, summed from enrollment cost
	// snapshots since the account was created.
	TotalEarned float64 `json:"totalEarned"`
}

// GetTeacherStatisticsHandler handles GetTeacherStatisticsQuery.
type GetTeacherStatisticsHandler struct {
	users   user.Repository
	courses course.Repository
	stats   StatsStore
	cache   *redis.StatsCache
	log     *logger.Logger
}

// NewGetTeacherStatisticsHandler creates a GetTeacherStatisticsHandler.
func NewGetTeacherStatisticsHandler(users user.Repository, courses course.Repository, stats StatsStore, cache *redis.StatsCache, log *logger.Logger) *GetTeacherStatisticsHandler {
	return &GetTeacherStatisticsHandler{users: users, courses: courses, stats: stats, cache: cache, log: log}
}

// Handle builds the dashboard. The window starts at account creation or
// now-90d, whichever is later, further narrowed by RangeDays. Lifetime
// totals ignore the window.
func (h *GetTeacherStatisticsHandler) Handle(ctx context.Context, q GetTeacherStatisticsQuery) (*TeacherStatistics, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	teacher, err := h.users.GetByID(ctx, q.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != user.RoleTeacher && teacher.Role != user.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	owned, err := h.courses.GetByAuthor(ctx, q.TeacherID, false)
	if err != nil {
		return nil, err
	}
	courseIDs := make([]string, len(owned))
	for i, c := range owned {
		courseIDs[i] = c.ID
	}

	start := statistics.StartDate(timeutil.Now(), q.RangeDays, &teacher.CreatedAt)
	lifetime := timeutil.StartOfDay(teacher.CreatedAt)

	earned, err := cached(ctx, h.cache, redis.TeacherEarningsKey(q.TeacherID, start),
		func(ctx context.Context) ([]statistics.TimeValue, error) {
			return h.stats.EarningsByDay(ctx, courseIDs, start)
		})
	if err != nil {
		return nil, err
	}

	enrollments, err := cached(ctx, h.cache, redis.TeacherEnrollmentsKey(q.TeacherID, start),
		func(ctx context.Context) ([]statistics.TimeValue, error) {
			return h.stats.EnrollmentsByDay(ctx, courseIDs, start)
		})
	if err != nil {
		return nil, err
	}

	totalEnrollments, err := cached(ctx, h.cache, redis.TeacherTotalEnrollmentsKey(q.TeacherID),
		func(ctx context.Context) (int, error) {
			return h.stats.TotalEnrollments(ctx, courseIDs)
		})
	if err != nil {
		return nil, err
	}

	totalEarned, err := cached(ctx, h.cache, redis.TeacherTotalEarnedKey(q.TeacherID),
		func(ctx context.Context) (float64, error) {
			lifetimeEarned, err := h.stats.EarningsByDay(ctx, courseIDs, lifetime)
			if err != nil {
				return 0, err
			}
			return statistics.SumValues(lifetimeEarned), nil
		})
	if err != nil {
		return nil, err
	}

	return &TeacherStatistics{
		Table: statistics.MergeSeries(map[string][]statistics.TimeValue{
			"earned":      earned,
			"enrollments": enrollments,
		}),
		TotalEnrollments: totalEnrollments,
		TotalEarned:      totalEarned,
	}, nil
}
