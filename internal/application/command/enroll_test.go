package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
)

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func publicCourse(t *testing.T, id, authorID string, price float64) *course.Course {
	t.Helper()
	c, err := course.New(id, "Course "+id, course.TypeProgramming, authorID, course.DifficultyBeginner, price, testNow)
	require.NoError(t, err)
	_, err = c.ChangeVisibility(course.VisibilityPublic)
	require.NoError(t, err)
	return c
}

func student(t *testing.T, id string) *user.User {
	t.Helper()
	u, err := user.New(id, "First", "Last", id+"@example.com", "hashed", testNow)
	require.NoError(t, err)
	return u
}

func TestEnrollHappyPath(t *testing.T) {
	c := publicCourse(t, "c1", "teacher", 49.99)
	u := student(t, "u1")
	u.AddToWishlist("c1")

	users := newFakeUserRepo(u)
	courses := newFakeCourseRepo(c)
	notifier := newFakeNotifier()
	h := NewEnrollHandler(users, courses, notifier, testLogger())

	result, err := h.Handle(context.Background(), EnrollCommand{UserID: "u1", CourseID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, "c1", result.Enrollment.CourseID)
	assert.Equal(t, 49.99, result.Enrollment.EnrollmentCost, "price is snapshotted into the ledger")

	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, stored.IsEnrolled("c1"))
	assert.False(t, stored.IsWishlisted("c1"), "enrolling removes the course from the wishlist")

	assert.Equal(t, 1, courses.increments["c1"], "counter bumped exactly once at the store level")

	require.True(t, notifier.wait(time.Second), "enrollment confirmation was sent")
	assert.Equal(t, []string{"c1"}, notifier.enrollments)
}

func TestEnrollRejectsAuthor(t *testing.T) {
	c := publicCourse(t, "c1", "teacher", 10)
	u := student(t, "teacher")

	h := NewEnrollHandler(newFakeUserRepo(u), newFakeCourseRepo(c), newFakeNotifier(), testLogger())

	_, err := h.Handle(context.Background(), EnrollCommand{UserID: "teacher", CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrSelfEnrollmentForbidden)
}

func TestEnrollRejectsNonPublicCourse(t *testing.T) {
	c, err := course.New("c1", "Draft", course.TypeMath, "teacher", course.DifficultyBeginner, 0, testNow)
	require.NoError(t, err)
	u := student(t, "u1")

	h := NewEnrollHandler(newFakeUserRepo(u), newFakeCourseRepo(c), newFakeNotifier(), testLogger())

	_, err = h.Handle(context.Background(), EnrollCommand{UserID: "u1", CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrCourseNotPublic)
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	c := publicCourse(t, "c1", "teacher", 10)
	u := student(t, "u1")
	_, err := u.AddEnrollment("c1", 10, testNow)
	require.NoError(t, err)

	courses := newFakeCourseRepo(c)
	h := NewEnrollHandler(newFakeUserRepo(u), courses, newFakeNotifier(), testLogger())

	_, err = h.Handle(context.Background(), EnrollCommand{UserID: "u1", CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrAlreadyEnrolled)
	assert.Zero(t, courses.increments["c1"], "a rejected enrollment never touches the counter")
}

func TestEnrollUnknownCourse(t *testing.T) {
	u := student(t, "u1")
	h := NewEnrollHandler(newFakeUserRepo(u), newFakeCourseRepo(), newFakeNotifier(), testLogger())

	_, err := h.Handle(context.Background(), EnrollCommand{UserID: "u1", CourseID: "missing"})
	assert.ErrorIs(t, err, shared.ErrCourseNotFound)
}

func TestEnrollValidation(t *testing.T) {
	h := NewEnrollHandler(newFakeUserRepo(), newFakeCourseRepo(), newFakeNotifier(), testLogger())

	_, err := h.Handle(context.Background(), EnrollCommand{CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = h.Handle(context.Background(), EnrollCommand{UserID: "u1"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
