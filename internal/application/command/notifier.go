// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/user"
)

// Notifier sends transactional notifications (enrollment confirmations,
// course published announcements). Implementations live in
// infrastructure/external. All calls are fire-and-forget from the command
// handlers' point of view: a notification failure is logged and never fails
// the triggering operation.
type Notifier interface {
	// NotifyEnrollment confirms a successful enrollment to the student.
	NotifyEnrollment(ctx context.Context, u *user.User, c *course.Course) error

	// NotifyCoursePublished announces to the author that the course went public.
	NotifyCoursePublished(ctx context.Context, c *course.Course) error

	// NotifyRoleDecision informs the user about an approved or refused role request.
	NotifyRoleDecision(ctx context.Context, u *user.User, accepted bool) error

	// NotifyUserDeleted confirms account deletion.
	NotifyUserDeleted(ctx context.Context, u *user.User) error
}
