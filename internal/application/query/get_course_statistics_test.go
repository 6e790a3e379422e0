package query

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/statistics"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError)
}

// fakeStatsStore returns canned series and records the windows it was asked
// about.
type fakeStatsStore struct {
	mu          sync.Mutex
	enrollments []statistics.TimeValue
	earnings    []statistics.TimeValue
	sinceSeen   []time.Time
	calls       int
}

func (s *fakeStatsStore) record(since time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinceSeen = append(s.sinceSeen, since)
	s.calls++
}

func (s *fakeStatsStore) EnrollmentsByDay(_ context.Context, _ []string, since time.Time) ([]statistics.TimeValue, error) {
	s.record(since)
	return s.enrollments, nil
}

func (s *fakeStatsStore) EarningsByDay(_ context.Context, _ []string, since time.Time) ([]statistics.TimeValue, error) {
	s.record(since)
	return s.earnings, nil
}

func (s *fakeStatsStore) UserActivityByDay(_ context.Context, since time.Time) ([]statistics.TimeValue, error) {
	s.record(since)
	return nil, nil
}

func (s *fakeStatsStore) NewUsersByDay(_ context.Context, since time.Time) ([]statistics.TimeValue, error) {
	s.record(since)
	return nil, nil
}

func (s *fakeStatsStore) NewCoursesByDay(_ context.Context, since time.Time) ([]statistics.TimeValue, error) {
	s.record(since)
	return nil, nil
}

func (s *fakeStatsStore) UsersByRole(context.Context) ([]statistics.GroupCount, error) {
	return nil, nil
}

func (s *fakeStatsStore) CoursesByType(context.Context) ([]statistics.GroupCount, error) {
	return nil, nil
}

func (s *fakeStatsStore) TotalEnrollments(context.Context, []string) (int, error) {
	return 0, nil
}

type fakeCourseRepo struct {
	courses map[string]*course.Course
}

func (r *fakeCourseRepo) Create(context.Context, *course.Course) error { return nil }

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*course.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	return c, nil
}

func (r *fakeCourseRepo) GetByIDs(_ context.Context, ids []string, _ bool) ([]*course.Course, error) {
	var out []*course.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByAuthor(_ context.Context, authorID string, _ bool) ([]*course.Course, error) {
	var out []*course.Course
	for _, c := range r.courses {
		if c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ExistsByNameAndAuthor(context.Context, string, string) (bool, error) {
	return false, nil
}

func (r *fakeCourseRepo) Update(context.Context, *course.Course) error            { return nil }
func (r *fakeCourseRepo) Delete(context.Context, string) error                    { return nil }
func (r *fakeCourseRepo) IncrementEnrolledStudents(context.Context, string) error { return nil }
func (r *fakeCourseRepo) UpdateViews(context.Context, string, []time.Time) error  { return nil }

// statCourse builds a 10 day old course with two views yesterday and one today.
func statCourse(t *testing.T) *course.Course {
	t.Helper()
	now := timeutil.Now()
	c, err := course.New("c1", "Course", course.TypeProgramming, "teacher", course.DifficultyBeginner, 10, now.AddDate(0, 0, -10))
	require.NoError(t, err)
	c.EnrolledStudents = 7
	c.Views = []time.Time{
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -1).Add(time.Minute),
		now,
	}
	return c
}

func TestGetCourseStatistics(t *testing.T) {
	c := statCourse(t)
	now := timeutil.Now()
	yesterday := timeutil.StartOfDay(now.AddDate(0, 0, -1)).Format(timeutil.FormatDate)
	today := timeutil.StartOfDay(now).Format(timeutil.FormatDate)

	stats := &fakeStatsStore{enrollments: []statistics.TimeValue{{Time: yesterday, Value: 2}}}
	h := NewGetCourseStatisticsHandler(&fakeCourseRepo{courses: map[string]*course.Course{"c1": c}}, stats, nil, testLogger())

	result, err := h.Handle(context.Background(), GetCourseStatisticsQuery{CourseID: "c1", RequesterID: "teacher"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalViews)
	assert.Equal(t, 7, result.EnrolledStudents)

	require.Len(t, result.Table, 2)
	assert.Equal(t, yesterday, result.Table[0].Date)
	assert.Equal(t, map[string]float64{"enrollments": 2, "views": 2}, result.Table[0].Values)
	assert.Equal(t, today, result.Table[1].Date)
	// No enrollments today: the key is absent, not zero.
	assert.Equal(t, map[string]float64{"views": 1}, result.Table[1].Values)
}

func TestGetCourseStatisticsWindowStartsAtCreation(t *testing.T) {
	c := statCourse(t)
	stats := &fakeStatsStore{}
	h := NewGetCourseStatisticsHandler(&fakeCourseRepo{courses: map[string]*course.Course{"c1": c}}, stats, nil, testLogger())

	_, err := h.Handle(context.Background(), GetCourseStatisticsQuery{CourseID: "c1", RequesterID: "teacher"})
	require.NoError(t, err)

	require.Len(t, stats.sinceSeen, 1)
	assert.Equal(t, timeutil.StartOfDay(c.CreatedAt), stats.sinceSeen[0],
		"a 10 day old course never gets the default 90 day window")
}

func TestGetCourseStatisticsRangeNarrows(t *testing.T) {
	c := statCourse(t)
	stats := &fakeStatsStore{}
	h := NewGetCourseStatisticsHandler(&fakeCourseRepo{courses: map[string]*course.Course{"c1": c}}, stats, nil, testLogger())

	rangeDays := 3
	_, err := h.Handle(context.Background(), GetCourseStatisticsQuery{CourseID: "c1", RequesterID: "teacher", RangeDays: &rangeDays})
	require.NoError(t, err)

	require.Len(t, stats.sinceSeen, 1)
	assert.Equal(t, timeutil.StartOfDay(timeutil.Now().AddDate(0, 0, -3)), stats.sinceSeen[0])
}

func TestGetCourseStatisticsAuthorOnly(t *testing.T) {
	c := statCourse(t)
	h := NewGetCourseStatisticsHandler(&fakeCourseRepo{courses: map[string]*course.Course{"c1": c}}, &fakeStatsStore{}, nil, testLogger())

	_, err := h.Handle(context.Background(), GetCourseStatisticsQuery{CourseID: "c1", RequesterID: "someone-else"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestGetCourseStatisticsValidation(t *testing.T) {
	h := NewGetCourseStatisticsHandler(&fakeCourseRepo{}, &fakeStatsStore{}, nil, testLogger())

	_, err := h.Handle(context.Background(), GetCourseStatisticsQuery{RequesterID: "u"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = h.Handle(context.Background(), GetCourseStatisticsQuery{CourseID: "c"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
