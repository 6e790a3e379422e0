package notify

import (
	"context"

	"github.com/eduhub/course-hub/config"
	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
)

// Sender is the set of notification kinds a delivery backend supports.
// Both Client and Noop satisfy it.
type Sender interface {
	NotifyEnrollment(ctx context.Context, u *user.User, c *course.Course) error
	NotifyCoursePublished(ctx context.Context, c *course.Course) error
	NotifyRoleDecision(ctx context.Context, u *user.User, accepted bool) error
	NotifyUserDeleted(ctx context.Context, u *user.User) error
}

// Gated filters notification kinds behind feature flags before delegating to
// the underlying sender. Each kind is evaluated per recipient, so a partial
// rollout delivers to a stable subset of users. A suppressed notification is
// not an error: the triggering operation already succeeded.
type Gated struct {
	next    Sender
	enabled func(feature, userID string) bool
	log     *logger.Logger
}

// NewGated wraps a sender with feature flag checks. The enabled function is
// typically config.FeatureFlags.IsEnabled.
func NewGated(next Sender, enabled func(feature, userID string) bool, log *logger.Logger) *Gated {
	return &Gated{next: next, enabled: enabled, log: log}
}

func (g *Gated) allow(feature, userID string) bool {
	if g.enabled(feature, userID) {
		return true
	}
	g.log.Debug("notification suppressed by feature flag",
		logger.F("feature", feature), logger.F("user_id", userID))
	return false
}

// NotifyEnrollment delivers when the enrollment confirmation flag is on for
// the student.
func (g *Gated) NotifyEnrollment(ctx context.Context, u *user.User, c *course.Course) error {
	if !g.allow(config.FeatureNotifyEnrollment, u.ID) {
		return nil
	}
	return g.next.NotifyEnrollment(ctx, u, c)
}

// NotifyCoursePublished delivers when the publish announcement flag is on for
// the course author.
func (g *Gated) NotifyCoursePublished(ctx context.Context, c *course.Course) error {
	if !g.allow(config.FeatureNotifyCoursePublished, c.AuthorID) {
		return nil
	}
	return g.next.NotifyCoursePublished(ctx, c)
}

// NotifyRoleDecision delivers when the role decision flag is on for the user.
func (g *Gated) NotifyRoleDecision(ctx context.Context, u *user.User, accepted bool) error {
	if !g.allow(config.FeatureNotifyRoleDecision, u.ID) {
		return nil
	}
	return g.next.NotifyRoleDecision(ctx, u, accepted)
}

// NotifyUserDeleted delivers when the deletion confirmation flag is on for
// the user.
func (g *Gated) NotifyUserDeleted(ctx context.Context, u *user.User) error {
	if !g.allow(config.FeatureNotifyAccountDeleted, u.ID) {
		return nil
	}
	return g.next.NotifyUserDeleted(ctx, u)
}
