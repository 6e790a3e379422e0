package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT AUTHORING
// Course/article/section CRUD. Every content mutation goes through the
// course aggregate, which recomputes derived durations and demotes edited
// courses back to PRIVATE for re-review.
// ══════════════════════════════════════════════════════════════════════════════

// ContentHandler handles authoring operations on the course content tree.
type ContentHandler struct {
	courses course.Repository
	log     *logger.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(courses course.Repository, log *logger.Logger) *ContentHandler {
	return &ContentHandler{courses: courses, log: log}
}

// CreateCourseCommand contains the data to create a course.
type CreateCourseCommand struct {
	AuthorID   string
	Name       string
	Type       string
	Difficulty string
	Price      float64
}

// CreateCourse creates a new private course and returns its ID.
// An author cannot reuse a course name.
func (h *ContentHandler) CreateCourse(ctx context.Context, cmd CreateCourseCommand) (string, error) {
	courseType, err := course.ParseType(cmd.Type)
	if err != nil {
		return "", err
	}
	difficulty, err := course.ParseDifficulty(cmd.Difficulty)
	if err != nil {
		return "", err
	}

	taken, err := h.courses.ExistsByNameAndAuthor(ctx, cmd.Name, cmd.AuthorID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", shared.ErrCourseNameTaken
	}

	c, err := course.New(uuid.NewString(), cmd.Name, courseType, cmd.AuthorID, difficulty, cmd.Price, timeutil.Now())
	if err != nil {
		return "", err
	}
	if err := h.courses.Create(ctx, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

// AddArticle appends a new article to the course and returns its ID.
func (h *ContentHandler) AddArticle(ctx context.Context, courseID, authorID, name string) (string, error) {
	c, err := h.courses.GetByID(ctx, courseID)
	if err != nil {
		return "", err
	}

	article, err := c.AddArticle(uuid.NewString(), name, authorID, timeutil.Now())
	if err != nil {
		return "", err
	}
	if err := h.courses.Update(ctx, c); err != nil {
		return "", err
	}
	return article.ID, nil
}

// RemoveArticle deletes an empty article and re-ranks the remaining ones.
func (h *ContentHandler) RemoveArticle(ctx context.Context, courseID, articleID string) error {
	c, err := h.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if err := c.RemoveArticle(articleID); err != nil {
		return err
	}
	return h.courses.Update(ctx, c)
}

// UpdateArticleCommand updates an article's name and description.
type UpdateArticleCommand struct {
	CourseID    string
	ArticleID   string
	Name        string
	Description string
}

// UpdateArticle renames an article and replaces its description. An empty
// name keeps the current one; the new name must be unique within the course.
func (h *ContentHandler) UpdateArticle(ctx context.Context, cmd UpdateArticleCommand) error {
	c, err := h.courses.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return err
	}
	if err := c.RenameArticle(cmd.ArticleID, cmd.Name, cmd.Description); err != nil {
		return err
	}
	return h.courses.Update(ctx, c)
}

// AddSectionCommand contains the data of a transcoded, uploaded section video.
type AddSectionCommand struct {
	CourseID  string
	ArticleID string
	Title     string

	// VideoURL and VideoDuration come from the blob storage and the video
	// probe, which run before this command.
	VideoURL      string
	VideoDuration int
}

// AddSection appends a section to an article and returns its ID.
func (h *ContentHandler) AddSection(ctx context.Context, cmd AddSectionCommand) (string, error) {
	c, err := h.courses.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return "", err
	}

	sectionID := uuid.NewString()
	if err := c.AddSection(cmd.ArticleID, sectionID, cmd.Title, cmd.VideoURL, cmd.VideoDuration, timeutil.Now()); err != nil {
		return "", err
	}
	if err := h.courses.Update(ctx, c); err != nil {
		return "", err
	}
	return sectionID, nil
}

// RemoveSection deletes a section from an article.
func (h *ContentHandler) RemoveSection(ctx context.Context, courseID, articleID, sectionID string) error {
	c, err := h.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if err := c.RemoveSection(articleID, sectionID); err != nil {
		return err
	}
	return h.courses.Update(ctx, c)
}

// UpdateSectionCommand updates a section's title and, when a new video was
// uploaded, its URL and probed duration.
type UpdateSectionCommand struct {
	CourseID      string
	ArticleID     string
	SectionID     string
	Title         string
	VideoURL      string
	VideoDuration int
}

// UpdateSection updates a section in place.
func (h *ContentHandler) UpdateSection(ctx context.Context, cmd UpdateSectionCommand) error {
	c, err := h.courses.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return err
	}
	if err := c.UpdateSection(cmd.ArticleID, cmd.SectionID, cmd.Title, cmd.VideoURL, cmd.VideoDuration); err != nil {
		return err
	}
	return h.courses.Update(ctx, c)
}

// DeleteCourse removes a course document entirely.
func (h *ContentHandler) DeleteCourse(ctx context.Context, courseID string) error {
	if _, err := h.courses.GetByID(ctx, courseID); err != nil {
		return err
	}
	return h.courses.Delete(ctx, courseID)
}
