package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
)

// progressFixture builds a public course (a1: s1 100s, s2 100s) and a user
// enrolled in it.
func progressFixture(t *testing.T) (*user.User, *course.Course) {
	t.Helper()

	c := publicCourse(t, "c1", "teacher", 0)
	_, err := c.AddArticle("a1", "Basics", "teacher", testNow)
	require.NoError(t, err)
	require.NoError(t, c.AddSection("a1", "s1", "Part one", "https://cdn/1", 100, testNow))
	require.NoError(t, c.AddSection("a1", "s2", "Part two", "https://cdn/2", 100, testNow))
	// Content edits demoted the course; publish it again for realism.
	_, err = c.ChangeVisibility(course.VisibilityPublic)
	require.NoError(t, err)

	u := student(t, "u1")
	_, err = u.AddEnrollment("c1", 0, testNow)
	require.NoError(t, err)
	return u, c
}

func TestRecordProgressReturnsPercentages(t *testing.T) {
	u, c := progressFixture(t)
	users := newFakeUserRepo(u)
	h := NewRecordProgressHandler(users, newFakeCourseRepo(c), testLogger())

	result, err := h.Handle(context.Background(), RecordProgressCommand{
		UserID: "u1", CourseID: "c1", ArticleID: "a1", SectionID: "s1", WatchedSecs: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, result.ArticlePercent)
	assert.Equal(t, 25, result.CoursePercent)

	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	enrolled, ok := stored.Enrollment("c1")
	require.True(t, ok)
	require.Len(t, enrolled.ArticleProgresses, 1)
	assert.Equal(t, 50, enrolled.ArticleProgresses[0].Sections[0].WatchedSecs)
}

func TestRecordProgressNeverRegresses(t *testing.T) {
	u, c := progressFixture(t)
	users := newFakeUserRepo(u)
	h := NewRecordProgressHandler(users, newFakeCourseRepo(c), testLogger())

	ctx := context.Background()
	_, err := h.Handle(ctx, RecordProgressCommand{
		UserID: "u1", CourseID: "c1", ArticleID: "a1", SectionID: "s1", WatchedSecs: 80,
	})
	require.NoError(t, err)

	// Rewinding and rewatching reports fewer seconds; stored value holds.
	result, err := h.Handle(ctx, RecordProgressCommand{
		UserID: "u1", CourseID: "c1", ArticleID: "a1", SectionID: "s1", WatchedSecs: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, result.ArticlePercent)

	stored, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	enrolled, _ := stored.Enrollment("c1")
	assert.Equal(t, 80, enrolled.ArticleProgresses[0].Sections[0].WatchedSecs)
}

func TestRecordProgressBounds(t *testing.T) {
	u, c := progressFixture(t)
	h := NewRecordProgressHandler(newFakeUserRepo(u), newFakeCourseRepo(c), testLogger())

	_, err := h.Handle(context.Background(), RecordProgressCommand{
		UserID: "u1", CourseID: "c1", ArticleID: "a1", SectionID: "s1", WatchedSecs: 101,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidProgress)

	_, err = h.Handle(context.Background(), RecordProgressCommand{
		UserID: "u1", CourseID: "c1", ArticleID: "a1", SectionID: "s1", WatchedSecs: -1,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidProgress)
}

func TestRecordProgressRequiresEnrollment(t *testing.T) {
	_, c := progressFixture(t)
	outsider := student(t, "u2")
	h := NewRecordProgressHandler(newFakeUserRepo(outsider), newFakeCourseRepo(c), testLogger())

	_, err := h.Handle(context.Background(), RecordProgressCommand{
		UserID: "u2", CourseID: "c1", ArticleID: "a1", SectionID: "s1", WatchedSecs: 10,
	})
	assert.ErrorIs(t, err, shared.ErrEnrollmentNotFound)
}

func TestRecordProgressUnknownContent(t *testing.T) {
	u, c := progressFixture(t)
	h := NewRecordProgressHandler(newFakeUserRepo(u), newFakeCourseRepo(c), testLogger())

	_, err := h.Handle(context.Background(), RecordProgressCommand{
		UserID: "u1", CourseID: "c1", ArticleID: "missing", SectionID: "s1", WatchedSecs: 10,
	})
	assert.ErrorIs(t, err, shared.ErrArticleNotFound)

	_, err = h.Handle(context.Background(), RecordProgressCommand{
		UserID: "u1", CourseID: "c1", ArticleID: "a1", SectionID: "missing", WatchedSecs: 10,
	})
	assert.ErrorIs(t, err, shared.ErrSectionNotFound)
}
