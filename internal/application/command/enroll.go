package command

import (
	"context"
	"time"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL COMMAND
// Adds a course to the user's enrollment ledger, snapshotting the price at
// this instant. The enrollment counter is incremented atomically at the
// store level so concurrent enrollments never lose updates.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollCommand contains the data to enroll a user in a course.
type EnrollCommand struct {
	// UserID is the enrolling user.
	UserID string

	// CourseID is the course to enroll in.
	CourseID string
}

// Validate validates the command.
func (c EnrollCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("enrollment", "Enroll", shared.ErrInvalidID, "user ID is required")
	}
	if c.CourseID == "" {
		return shared.NewDomainError("enrollment", "Enroll", shared.ErrInvalidID, "course ID is required")
	}
	return nil
}

// EnrollResult contains the created ledger entry.
type EnrollResult struct {
	Enrollment user.EnrolledCourse
}

// EnrollHandler handles EnrollCommand.
type EnrollHandler struct {
	users    user.Repository
	courses  course.Repository
	notifier Notifier
	log      *logger.Logger
}

// NewEnrollHandler creates an EnrollHandler.
func NewEnrollHandler(users user.Repository, courses course.Repository, notifier Notifier, log *logger.Logger) *EnrollHandler {
	return &EnrollHandler{users: users, courses: courses, notifier: notifier, log: log}
}

// Handle enrolls the user in the course.
//
// Preconditions: the course is PUBLIC, the user is not its author, and the
// user is not already enrolled. Violations surface as CourseNotPublic,
// SelfEnrollmentForbidden, and AlreadyEnrolled domain errors.
func (h *EnrollHandler) Handle(ctx context.Context, cmd EnrollCommand) (*EnrollResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := h.courses.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID == cmd.UserID {
		return nil, shared.ErrSelfEnrollmentForbidden
	}
	if !c.IsPublic() {
		return nil, shared.ErrCourseNotPublic
	}

	// The ledger mutation runs under the user row lock, so two concurrent
	// enroll calls for the same user serialize and the second one fails the
	// duplicate check instead of writing a second ledger entry.
	var (
		enrolled *user.User
		entry    user.EnrolledCourse
	)
	err = h.users.UpdateEnrollments(ctx, cmd.UserID, func(u *user.User) error {
		e, err := u.AddEnrollment(c.ID, c.Price, timeutil.Now())
		if err != nil {
			return err
		}
		u.RemoveFromWishlist(c.ID)
		enrolled = u
		entry = *e
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Store-level increment, not read-modify-write.
	if err := h.courses.IncrementEnrolledStudents(ctx, c.ID); err != nil {
		return nil, err
	}

	h.notifyEnrollment(enrolled, c)

	return &EnrollResult{Enrollment: entry}, nil
}

// notifyEnrollment sends the confirmation without blocking or failing the
// enrollment.
func (h *EnrollHandler) notifyEnrollment(u *user.User, c *course.Course) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifier.NotifyEnrollment(ctx, u, c); err != nil {
			h.log.Warn("enrollment notification failed",
				logger.F("user_id", u.ID),
				logger.F("course_id", c.ID),
				logger.Err(err))
		}
	}()
}
