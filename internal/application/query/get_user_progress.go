package query

import (
	"context"
	"time"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/progress"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER PROGRESS QUERIES
// Read models over the enrollment ledger: the "my courses" listing with
// completion percentages, and the full per-section breakdown for one course.
// ══════════════════════════════════════════════════════════════════════════════

// EnrolledCourseSummary is one row of the "my courses" listing.
type EnrolledCourseSummary struct {
	CourseID       string    `json:"courseId"`
	Name           string    `json:"name"`
	IndexPhotoURL  string    `json:"indexPhotoUrl"`
	EnrolledAt     time.Time `json:"enrolledAt"`
	EnrollmentCost float64   `json:"enrollmentCost"`

	// Percent is the course completion, 0..100, floored.
	Percent int `json:"percent"`
}

// SectionProgressView is the per-section breakdown entry.
type SectionProgressView struct {
	SectionID     string `json:"sectionId"`
	Title         string `json:"title"`
	WatchedSecs   int    `json:"watchedSecs"`
	VideoDuration int    `json:"videoDuration"`
}

// ArticleProgressView is the per-article breakdown entry.
type ArticleProgressView struct {
	ArticleID string                `json:"articleId"`
	Name      string                `json:"name"`
	Percent   int                   `json:"percent"`
	Sections  []SectionProgressView `json:"sections"`
}

// CourseProgressView is the full breakdown for one enrolled course.
type CourseProgressView struct {
	CourseID string                `json:"courseId"`
	Percent  int                   `json:"percent"`
	Articles []ArticleProgressView `json:"articles"`
}

// GetUserProgressHandler answers progress queries for a user.
type GetUserProgressHandler struct {
	users   user.Repository
	courses course.Repository
	log     *logger.Logger
}

// NewGetUserProgressHandler creates a GetUserProgressHandler.
func NewGetUserProgressHandler(users user.Repository, courses course.Repository, log *logger.Logger) *GetUserProgressHandler {
	return &GetUserProgressHandler{users: users, courses: courses, log: log}
}

// ListEnrolledCourses returns the user's enrollment ledger joined with the
// current course documents. Ledger entries whose course was deleted are
// skipped rather than failing the listing.
func (h *GetUserProgressHandler) ListEnrolledCourses(ctx context.Context, userID string) ([]EnrolledCourseSummary, error) {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(u.EnrolledCourses))
	for i, e := range u.EnrolledCourses {
		ids[i] = e.CourseID
	}

	courses, err := h.courses.GetByIDs(ctx, ids, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*course.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	summaries := make([]EnrolledCourseSummary, 0, len(u.EnrolledCourses))
	for i := range u.EnrolledCourses {
		enrolled := &u.EnrolledCourses[i]
		c, ok := byID[enrolled.CourseID]
		if !ok {
			continue
		}
		summaries = append(summaries, EnrolledCourseSummary{
			CourseID:       c.ID,
			Name:           c.Name,
			IndexPhotoURL:  c.IndexPhotoURL,
			EnrolledAt:     enrolled.EnrolledAt,
			EnrollmentCost: enrolled.EnrollmentCost,
			Percent:        progress.CoursePercent(c, enrolled),
		})
	}
	return summaries, nil
}

// GetCourseProgress returns the full per-article, per-section breakdown for
// one enrolled course. Sections the user never started report zero watched
// seconds; progress records for content that was since deleted are omitted.
func (h *GetUserProgressHandler) GetCourseProgress(ctx context.Context, userID, courseID string) (*CourseProgressView, error) {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	enrolled, ok := u.Enrollment(courseID)
	if !ok {
		return nil, shared.ErrEnrollmentNotFound
	}

	c, err := h.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	view := &CourseProgressView{
		CourseID: c.ID,
		Percent:  progress.CoursePercent(c, enrolled),
		Articles: make([]ArticleProgressView, 0, len(c.Articles)),
	}

	for i := range c.Articles {
		article := &c.Articles[i]
		av := ArticleProgressView{
			ArticleID: article.ID,
			Name:      article.Name,
			Sections:  make([]SectionProgressView, 0, len(article.Sections)),
		}

		var articleProgress *user.ArticleProgress
		for j := range enrolled.ArticleProgresses {
			if enrolled.ArticleProgresses[j].ArticleID == article.ID {
				articleProgress = &enrolled.ArticleProgresses[j]
				break
			}
		}
		if articleProgress != nil {
			av.Percent = progress.ArticlePercent(article, articleProgress)
		}

		for j := range article.Sections {
			section := &article.Sections[j]
			sv := SectionProgressView{
				SectionID:     section.ID,
				Title:         section.Title,
				VideoDuration: section.VideoDuration,
			}
			if articleProgress != nil {
				for _, sp := range articleProgress.Sections {
					if sp.SectionID == section.ID {
						sv.WatchedSecs = sp.WatchedSecs
						break
					}
				}
			}
			av.Sections = append(av.Sections, sv)
		}
		view.Articles = append(view.Articles, av)
	}

	return view, nil
}
