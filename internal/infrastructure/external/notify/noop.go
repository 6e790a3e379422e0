package notify

import (
	"context"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/user"
)

// Noop discards all notifications. Used in development and tests where no
// mailer service is configured.
type Noop struct{}

func (Noop) NotifyEnrollment(context.Context, *user.User, *course.Course) error { return nil }
func (Noop) NotifyCoursePublished(context.Context, *course.Course) error        { return nil }
func (Noop) NotifyRoleDecision(context.Context, *user.User, bool) error         { return nil }
func (Noop) NotifyUserDeleted(context.Context, *user.User) error                { return nil }
