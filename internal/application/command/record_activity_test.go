package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterViewAppendsToLog(t *testing.T) {
	c := publicCourse(t, "c1", "teacher", 10)
	courses := newFakeCourseRepo(c)
	h := NewRegisterViewHandler(courses, true, testLogger())

	require.NoError(t, h.Handle(context.Background(), "c1"))
	require.NoError(t, h.Handle(context.Background(), "c1"))

	stored, err := courses.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, stored.Views, 2, "every view counts, no same-day collapse")
}

func TestRegisterViewDisabledSkipsWrite(t *testing.T) {
	c := publicCourse(t, "c1", "teacher", 10)
	courses := newFakeCourseRepo(c)
	h := NewRegisterViewHandler(courses, false, testLogger())

	require.NoError(t, h.Handle(context.Background(), "c1"))

	stored, err := courses.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, stored.Views)
}

func TestRecordActivityCollapsesSameDay(t *testing.T) {
	u := student(t, "u1")
	users := newFakeUserRepo(u)
	h := NewRecordActivityHandler(users, true, testLogger())

	require.NoError(t, h.Handle(context.Background(), "u1"))
	require.NoError(t, h.Handle(context.Background(), "u1"))

	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, stored.LastAction, 1, "at most one activity entry per day")
}

func TestRecordActivityDisabledSkipsWrite(t *testing.T) {
	u := student(t, "u1")
	users := newFakeUserRepo(u)
	h := NewRecordActivityHandler(users, false, testLogger())

	require.NoError(t, h.Handle(context.Background(), "u1"))

	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.LastAction)
}
