// Package progress computes watched-time progress over the course content
// tree. It joins the stored progress records of an enrollment against the
// course's current articles and sections: progress entries referencing
// content that was since deleted are ignored, not errored.
// This is a pure domain layer with zero external dependencies.
package progress

import (
	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
)

// Apply records watchedSecs for one section into the enrollment.
//
// watchedSecs must satisfy 0 <= watchedSecs <= section.VideoDuration;
// violating either bound is ErrInvalidProgress and leaves the enrollment
// untouched. Progress is monotonic: an existing record is only raised,
// never lowered, so rewatching less of a video never regresses it.
func Apply(enrolled *user.EnrolledCourse, c *course.Course, articleID, sectionID string, watchedSecs int) error {
	section, err := c.FindSection(articleID, sectionID)
	if err != nil {
		return err
	}
	if watchedSecs < 0 || watchedSecs > section.VideoDuration {
		return shared.ErrInvalidProgress
	}

	for i := range enrolled.ArticleProgresses {
		ap := &enrolled.ArticleProgresses[i]
		if ap.ArticleID != articleID {
			continue
		}
		for j := range ap.Sections {
			sp := &ap.Sections[j]
			if sp.SectionID != sectionID {
				continue
			}
			if watchedSecs > sp.WatchedSecs {
				sp.WatchedSecs = watchedSecs
			}
			return nil
		}
		ap.Sections = append(ap.Sections, user.SectionProgress{
			SectionID:   sectionID,
			WatchedSecs: watchedSecs,
		})
		return nil
	}

	enrolled.ArticleProgresses = append(enrolled.ArticleProgresses, user.ArticleProgress{
		ArticleID: articleID,
		Sections: []user.SectionProgress{
			{SectionID: sectionID, WatchedSecs: watchedSecs},
		},
	})
	return nil
}

// ArticlePercent returns the completion percentage (0..100, floored) of one
// article. Articles with zero duration report 0 rather than dividing by zero.
func ArticlePercent(article *course.Article, ap *user.ArticleProgress) int {
	if article == nil || ap == nil || article.Duration == 0 {
		return 0
	}
	return matchedArticleSecs(article, ap) * 100 / article.Duration
}

// CoursePercent returns the completion percentage (0..100, floored) of the
// whole course for the given enrollment. Zero-duration courses report 0.
func CoursePercent(c *course.Course, enrolled *user.EnrolledCourse) int {
	if c == nil || enrolled == nil || c.Duration == 0 {
		return 0
	}
	return WatchedSeconds(c, enrolled) * 100 / c.Duration
}

// WatchedSeconds sums the recorded watched seconds over sections that still
// exist in the course content tree.
func WatchedSeconds(c *course.Course, enrolled *user.EnrolledCourse) int {
	total := 0
	for i := range enrolled.ArticleProgresses {
		ap := &enrolled.ArticleProgresses[i]
		article, err := c.FindArticle(ap.ArticleID)
		if err != nil {
			continue
		}
		total += matchedArticleSecs(article, ap)
	}
	return total
}

func matchedArticleSecs(article *course.Article, ap *user.ArticleProgress) int {
	total := 0
	for _, sp := range ap.Sections {
		for k := range article.Sections {
			if article.Sections[k].ID == sp.SectionID {
				total += sp.WatchedSecs
				break
			}
		}
	}
	return total
}
