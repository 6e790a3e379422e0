package notify

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/config"
	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
)

// recordingSender counts deliveries per kind.
type recordingSender struct {
	enrollments int
	published   int
	decisions   int
	deletions   int
}

func (s *recordingSender) NotifyEnrollment(context.Context, *user.User, *course.Course) error {
	s.enrollments++
	return nil
}

func (s *recordingSender) NotifyCoursePublished(context.Context, *course.Course) error {
	s.published++
	return nil
}

func (s *recordingSender) NotifyRoleDecision(context.Context, *user.User, bool) error {
	s.decisions++
	return nil
}

func (s *recordingSender) NotifyUserDeleted(context.Context, *user.User) error {
	s.deletions++
	return nil
}

func fixtures(t *testing.T) (*user.User, *course.Course) {
	t.Helper()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	u, err := user.New("u1", "First", "Last", "u1@example.com", "hashed", now)
	require.NoError(t, err)
	c, err := course.New("c1", "Go Basics", course.TypeProgramming, "t1", course.DifficultyBeginner, 10, now)
	require.NoError(t, err)
	return u, c
}

func TestGatedDelegatesWhenFlagsOn(t *testing.T) {
	u, c := fixtures(t)
	next := &recordingSender{}
	g := NewGated(next, func(string, string) bool { return true },
		logger.New(io.Discard, logger.LevelError))

	ctx := context.Background()
	require.NoError(t, g.NotifyEnrollment(ctx, u, c))
	require.NoError(t, g.NotifyCoursePublished(ctx, c))
	require.NoError(t, g.NotifyRoleDecision(ctx, u, true))
	require.NoError(t, g.NotifyUserDeleted(ctx, u))

	assert.Equal(t, 1, next.enrollments)
	assert.Equal(t, 1, next.published)
	assert.Equal(t, 1, next.decisions)
	assert.Equal(t, 1, next.deletions)
}

func TestGatedSuppressesDisabledKinds(t *testing.T) {
	u, c := fixtures(t)
	next := &recordingSender{}
	g := NewGated(next, func(feature, _ string) bool {
		return feature != config.FeatureNotifyEnrollment
	}, logger.New(io.Discard, logger.LevelError))

	ctx := context.Background()
	require.NoError(t, g.NotifyEnrollment(ctx, u, c), "a suppressed notification is not an error")
	require.NoError(t, g.NotifyCoursePublished(ctx, c))

	assert.Zero(t, next.enrollments)
	assert.Equal(t, 1, next.published)
}

func TestGatedEvaluatesFlagsPerRecipient(t *testing.T) {
	u, c := fixtures(t)
	next := &recordingSender{}

	var seen []string
	g := NewGated(next, func(_, userID string) bool {
		seen = append(seen, userID)
		return true
	}, logger.New(io.Discard, logger.LevelError))

	ctx := context.Background()
	require.NoError(t, g.NotifyEnrollment(ctx, u, c))
	require.NoError(t, g.NotifyCoursePublished(ctx, c))

	assert.Equal(t, []string{"u1", "t1"}, seen,
		"enrollment gates on the student, publish gates on the author")
}
