package command

import (
	"context"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/progress"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PROGRESS COMMAND
// Records watched seconds for one section into the user's enrollment.
// The mutation runs under the repository's row-locked update so two
// concurrent updates for the same user cannot lose each other's writes;
// within one record, progress only ever moves forward.
// ══════════════════════════════════════════════════════════════════════════════

// RecordProgressCommand contains the data of one watch event.
type RecordProgressCommand struct {
	// UserID is the watching user.
	UserID string

	// CourseID is the enrolled course.
	CourseID string

	// ArticleID locates the article within the course.
	ArticleID string

	// SectionID locates the section within the article.
	SectionID string

	// WatchedSecs is the total seconds watched, 0..section.VideoDuration.
	WatchedSecs int
}

// Validate validates the command.
func (c RecordProgressCommand) Validate() error {
	if c.UserID == "" || c.CourseID == "" || c.ArticleID == "" || c.SectionID == "" {
		return shared.NewDomainError("progress", "Record", shared.ErrInvalidID, "user, course, article and section IDs are required")
	}
	if c.WatchedSecs < 0 {
		return shared.ErrInvalidProgress
	}
	return nil
}

// RecordProgressResult contains the recomputed completion percentages.
type RecordProgressResult struct {
	// ArticlePercent is the article completion after the update (0..100).
	ArticlePercent int

	// CoursePercent is the course completion after the update (0..100).
	CoursePercent int
}

// RecordProgressHandler handles RecordProgressCommand.
type RecordProgressHandler struct {
	users   user.Repository
	courses course.Repository
	log     *logger.Logger
}

// NewRecordProgressHandler creates a RecordProgressHandler.
func NewRecordProgressHandler(users user.Repository, courses course.Repository, log *logger.Logger) *RecordProgressHandler {
	return &RecordProgressHandler{users: users, courses: courses, log: log}
}

// Handle records the watch event and returns the derived percentages.
func (h *RecordProgressHandler) Handle(ctx context.Context, cmd RecordProgressCommand) (*RecordProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := h.courses.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	result := &RecordProgressResult{}
	err = h.users.UpdateEnrollments(ctx, cmd.UserID, func(u *user.User) error {
		enrolled, ok := u.Enrollment(cmd.CourseID)
		if !ok {
			return shared.ErrEnrollmentNotFound
		}
		if err := progress.Apply(enrolled, c, cmd.ArticleID, cmd.SectionID, cmd.WatchedSecs); err != nil {
			return err
		}

		article, err := c.FindArticle(cmd.ArticleID)
		if err != nil {
			return err
		}
		for i := range enrolled.ArticleProgresses {
			if enrolled.ArticleProgresses[i].ArticleID == cmd.ArticleID {
				result.ArticlePercent = progress.ArticlePercent(article, &enrolled.ArticleProgresses[i])
				break
			}
		}
		result.CoursePercent = progress.CoursePercent(c, enrolled)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
