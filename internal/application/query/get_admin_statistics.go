package query

import (
	"context"

	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/statistics"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/internal/infrastructure/persistence/redis"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN STATISTICS QUERY
// Platform-wide dashboard: daily active users, registrations and course
// creations over the window, plus role and course-type distributions.
// ══════════════════════════════════════════════════════════════════════════════

// GetAdminStatisticsQuery carries the optional window.
type GetAdminStatisticsQuery struct {
	// RequesterID must belong to an admin.
	RequesterID string

	// RangeDays narrows the analysis window when in 0..90.
	RangeDays *int
}

// Validate validates the query.
func (q GetAdminStatisticsQuery) Validate() error {
	if q.RequesterID == "" {
		return shared.NewDomainError("statistics", "GetAdminStatistics", shared.ErrInvalidID, "requester ID is required")
	}
	return nil
}

// AdminStatistics is the platform dashboard payload.
type AdminStatistics struct {
	// Table merges the "activeUsers", "newUsers" and "newCourses" day series.
	Table []statistics.Row `json:"table"`

	// UsersByRole is the current user count per platform role.
	UsersByRole []statistics.GroupCount `json:"usersByRole"`

	// CoursesByType is the current course count per course type.
	CoursesByType []statistics.GroupCount `json:"coursesByType"`
}

// GetAdminStatisticsHandler handles GetAdminStatisticsQuery.
type GetAdminStatisticsHandler struct {
	users user.Repository
	stats StatsStore
	cache *redis.StatsCache
	log   *logger.Logger
}

// NewGetAdminStatisticsHandler creates a GetAdminStatisticsHandler.
func NewGetAdminStatisticsHandler(users user.Repository, stats StatsStore, cache *redis.StatsCache, log *logger.Logger) *GetAdminStatisticsHandler {
	return &GetAdminStatisticsHandler{users: users, stats: stats, cache: cache, log: log}
}

// Handle builds the dashboard. The window is now-90d narrowed by RangeDays;
// the platform has no creation date so nothing moves the base start later.
func (h *GetAdminStatisticsHandler) Handle(ctx context.Context, q GetAdminStatisticsQuery) (*AdminStatistics, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	requester, err := h.users.GetByID(ctx, q.RequesterID)
	if err != nil {
		return nil, err
	}
	if requester.Role != user.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	start := statistics.StartDate(timeutil.Now(), q.RangeDays, nil)

	activity, err := cached(ctx, h.cache, redis.UserActivityKey(start),
		func(ctx context.Context) ([]statistics.TimeValue, error) {
			return h.stats.UserActivityByDay(ctx, start)
		})
	if err != nil {
		return nil, err
	}

	newUsers, err := cached(ctx, h.cache, redis.NewUsersKey(start),
		func(ctx context.Context) ([]statistics.TimeValue, error) {
			return h.stats.NewUsersByDay(ctx, start)
		})
	if err != nil {
		return nil, err
	}

	newCourses, err := cached(ctx, h.cache, redis.NewCoursesKey(start),
		func(ctx context.Context) ([]statistics.TimeValue, error) {
			return h.stats.NewCoursesByDay(ctx, start)
		})
	if err != nil {
		return nil, err
	}

	usersByRole, err := cached(ctx, h.cache, redis.UsersByRoleKey(),
		func(ctx context.Context) ([]statistics.GroupCount, error) {
			return h.stats.UsersByRole(ctx)
		})
	if err != nil {
		return nil, err
	}

	coursesByType, err := cached(ctx, h.cache, redis.CoursesByTypeKey(),
		func(ctx context.Context) ([]statistics.GroupCount, error) {
			return h.stats.CoursesByType(ctx)
		})
	if err != nil {
		return nil, err
	}

	return &AdminStatistics{
		Table: statistics.MergeSeries(map[string][]statistics.TimeValue{
			"activeUsers": activity,
			"newUsers":    newUsers,
			"newCourses":  newCourses,
		}),
		UsersByRole:   usersByRole,
		CoursesByType: coursesByType,
	}, nil
}
