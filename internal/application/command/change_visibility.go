package command

import (
	"context"
	"time"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHANGE VISIBILITY COMMAND
// Explicit PRIVATE/PENDING/PUBLIC transitions requested by authors and
// reviewers. Automatic demotion on content edits happens inside the course
// aggregate itself, not through this command.
// ══════════════════════════════════════════════════════════════════════════════

// ChangeVisibilityCommand requests a visibility transition.
type ChangeVisibilityCommand struct {
	// CourseID is the course to transition.
	CourseID string

	// NewState is the target visibility state.
	NewState course.Visibility
}

// Validate validates the command.
func (c ChangeVisibilityCommand) Validate() error {
	if c.CourseID == "" {
		return shared.NewDomainError("course", "ChangeVisibility", shared.ErrInvalidID, "course ID is required")
	}
	_, err := course.ParseVisibility(string(c.NewState))
	return err
}

// ChangeVisibilityHandler handles ChangeVisibilityCommand.
type ChangeVisibilityHandler struct {
	courses  course.Repository
	notifier Notifier
	log      *logger.Logger
}

// NewChangeVisibilityHandler creates a ChangeVisibilityHandler.
func NewChangeVisibilityHandler(courses course.Repository, notifier Notifier, log *logger.Logger) *ChangeVisibilityHandler {
	return &ChangeVisibilityHandler{courses: courses, notifier: notifier, log: log}
}

// Handle performs the transition. Transitioning to the current state fails
// with ErrSameVisibilityState; a transition to PUBLIC triggers the published
// notification (fire-and-forget).
func (h *ChangeVisibilityHandler) Handle(ctx context.Context, cmd ChangeVisibilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c, err := h.courses.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return err
	}

	published, err := c.ChangeVisibility(cmd.NewState)
	if err != nil {
		return err
	}
	if err := h.courses.Update(ctx, c); err != nil {
		return err
	}

	if published {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.notifier.NotifyCoursePublished(ctx, c); err != nil {
				h.log.Warn("course published notification failed",
					logger.F("course_id", c.ID), logger.Err(err))
			}
		}()
	}

	return nil
}
