package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
)

func TestChangeVisibilityPublishNotifies(t *testing.T) {
	c, err := course.New("c1", "Course", course.TypeMath, "teacher", course.DifficultyBeginner, 0, testNow)
	require.NoError(t, err)

	courses := newFakeCourseRepo(c)
	notifier := newFakeNotifier()
	h := NewChangeVisibilityHandler(courses, notifier, testLogger())

	err = h.Handle(context.Background(), ChangeVisibilityCommand{CourseID: "c1", NewState: course.VisibilityPublic})
	require.NoError(t, err)

	stored, err := courses.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, stored.IsPublic())

	require.True(t, notifier.wait(time.Second))
	assert.Equal(t, []string{"c1"}, notifier.published)
}

func TestChangeVisibilityToPendingIsSilent(t *testing.T) {
	c, err := course.New("c1", "Course", course.TypeMath, "teacher", course.DifficultyBeginner, 0, testNow)
	require.NoError(t, err)

	notifier := newFakeNotifier()
	h := NewChangeVisibilityHandler(newFakeCourseRepo(c), notifier, testLogger())

	err = h.Handle(context.Background(), ChangeVisibilityCommand{CourseID: "c1", NewState: course.VisibilityPending})
	require.NoError(t, err)

	assert.False(t, notifier.wait(50*time.Millisecond), "only publishing notifies the author")
}

func TestChangeVisibilitySameStateRejected(t *testing.T) {
	c, err := course.New("c1", "Course", course.TypeMath, "teacher", course.DifficultyBeginner, 0, testNow)
	require.NoError(t, err)

	h := NewChangeVisibilityHandler(newFakeCourseRepo(c), newFakeNotifier(), testLogger())

	err = h.Handle(context.Background(), ChangeVisibilityCommand{CourseID: "c1", NewState: course.VisibilityPrivate})
	assert.ErrorIs(t, err, shared.ErrSameVisibilityState)
}

func TestChangeVisibilityValidation(t *testing.T) {
	h := NewChangeVisibilityHandler(newFakeCourseRepo(), newFakeNotifier(), testLogger())

	err := h.Handle(context.Background(), ChangeVisibilityCommand{NewState: course.VisibilityPublic})
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	err = h.Handle(context.Background(), ChangeVisibilityCommand{CourseID: "c1", NewState: "Hidden"})
	assert.ErrorIs(t, err, shared.ErrUnknownVisibilityState)
}
