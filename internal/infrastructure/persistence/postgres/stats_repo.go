package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eduhub/course-hub/internal/domain/statistics"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS REPOSITORY
// Answers the dashboard aggregates by unnesting the JSONB documents with
// jsonb_array_elements. Day buckets are UTC calendar days; the results
// feed the day-boundary cache, so each query runs at most once per day
// per key under normal operation.
// ══════════════════════════════════════════════════════════════════════════════

// StatsRepository implements the statistics store backed by PostgreSQL.
type StatsRepository struct {
	conn *Connection
}

// NewStatsRepository creates a StatsRepository.
func NewStatsRepository(conn *Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// EnrollmentsByDay buckets enrollments into the given courses by day.
func (r *StatsRepository) EnrollmentsByDay(ctx context.Context, courseIDs []string, since time.Time) ([]statistics.TimeValue, error) {
	if len(courseIDs) == 0 {
		return []statistics.TimeValue{}, nil
	}

	rows, err := r.conn.Query(ctx, `
		SELECT to_char((e->>'enrolledAt')::timestamptz AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(*)::double precision
		FROM users u, jsonb_array_elements(u.enrolled_courses) e
		WHERE e->>'courseId' = ANY($1)
		  AND (e->>'enrolledAt')::timestamptz >= $2
		GROUP BY day
		ORDER BY day`,
		courseIDs, since,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: enrollments by day: %w", err)
	}
	defer rows.Close()
	return scanTimeValues(rows)
}

// EarningsByDay buckets the summed enrollment cost snapshots of the given
// courses by day.
func (r *StatsRepository) EarningsByDay(ctx context.Context, courseIDs []string, since time.Time) ([]statistics.TimeValue, error) {
	if len(courseIDs) == 0 {
		return []statistics.TimeValue{}, nil
	}

	rows, err := r.conn.Query(ctx, `
		SELECT to_char((e->>'enrolledAt')::timestamptz AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       SUM((e->>'enrollmentCost')::double precision)
		FROM users u, jsonb_array_elements(u.enrolled_courses) e
		WHERE e->>'courseId' = ANY($1)
		  AND (e->>'enrolledAt')::timestamptz >= $2
		GROUP BY day
		ORDER BY day`,
		courseIDs, since,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: earnings by day: %w", err)
	}
	defer rows.Close()
	return scanTimeValues(rows)
}

// UserActivityByDay counts distinct active users per day. The per-user
// activity log already holds at most one entry per day, so counting
// distinct users equals counting entries.
func (r *StatsRepository) UserActivityByDay(ctx context.Context, since time.Time) ([]statistics.TimeValue, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT to_char((a#>>'{}')::timestamptz AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(DISTINCT u.id)::double precision
		FROM users u, jsonb_array_elements(u.last_action) a
		WHERE (a#>>'{}')::timestamptz >= $1
		GROUP BY day
		ORDER BY day`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: user activity by day: %w", err)
	}
	defer rows.Close()
	return scanTimeValues(rows)
}

// NewUsersByDay buckets user registrations by day.
func (r *StatsRepository) NewUsersByDay(ctx context.Context, since time.Time) ([]statistics.TimeValue, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(*)::double precision
		FROM users
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: new users by day: %w", err)
	}
	defer rows.Close()
	return scanTimeValues(rows)
}

// NewCoursesByDay buckets course creations by day.
func (r *StatsRepository) NewCoursesByDay(ctx context.Context, since time.Time) ([]statistics.TimeValue, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COUNT(*)::double precision
		FROM courses
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: new courses by day: %w", err)
	}
	defer rows.Close()
	return scanTimeValues(rows)
}

// UsersByRole counts users per platform role.
func (r *StatsRepository) UsersByRole(ctx context.Context) ([]statistics.GroupCount, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT role, COUNT(*)
		FROM users
		GROUP BY role
		ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("postgres: users by role: %w", err)
	}
	defer rows.Close()
	return scanGroupCounts(rows)
}

// CoursesByType counts courses per course type.
func (r *StatsRepository) CoursesByType(ctx context.Context) ([]statistics.GroupCount, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT type, COUNT(*)
		FROM courses
		GROUP BY type
		ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("postgres: courses by type: %w", err)
	}
	defer rows.Close()
	return scanGroupCounts(rows)
}

// TotalEnrollments counts all ledger entries pointing at the given courses.
func (r *StatsRepository) TotalEnrollments(ctx context.Context, courseIDs []string) (int, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}

	var total int
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM users u, jsonb_array_elements(u.enrolled_courses) e
		WHERE e->>'courseId' = ANY($1)`,
		courseIDs,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("postgres: total enrollments: %w", err)
	}
	return total, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

func scanTimeValues(rows pgx.Rows) ([]statistics.TimeValue, error) {
	series := []statistics.TimeValue{}
	for rows.Next() {
		var tv statistics.TimeValue
		if err := rows.Scan(&tv.Time, &tv.Value); err != nil {
			return nil, fmt.Errorf("postgres: scan time value: %w", err)
		}
		series = append(series, tv)
	}
	return series, rows.Err()
}

func scanGroupCounts(rows pgx.Rows) ([]statistics.GroupCount, error) {
	groups := []statistics.GroupCount{}
	for rows.Next() {
		var gc statistics.GroupCount
		if err := rows.Scan(&gc.Type, &gc.Count); err != nil {
			return nil, fmt.Errorf("postgres: scan group count: %w", err)
		}
		groups = append(groups, gc)
	}
	return groups, rows.Err()
}
