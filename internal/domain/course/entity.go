// Package course contains domain entities and business logic for the course
// content tree: courses, their ordered articles, and video sections.
// This is a pure domain layer with zero external dependencies.
package course

import (
	"time"

	"github.com/eduhub/course-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Difficulty represents the difficulty grade of a course.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
	DifficultyProfessional Difficulty = "Professional"
)

// ParseDifficulty validates and converts a string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyProfessional:
		return Difficulty(s), nil
	default:
		return "", shared.NewDomainError("course", "ParseDifficulty", shared.ErrInvalidInput, "invalid difficulty")
	}
}

// Type represents the subject category of a course.
type Type string

const (
	TypeLanguage    Type = "Language"
	TypeProgramming Type = "Programming"
	TypeMath        Type = "Math"
	TypeEngineering Type = "Engineering"
	TypePhysics     Type = "Physics"
	TypeChemistry   Type = "Chemistry"
	TypeBiology     Type = "Biology"
	TypeMusic       Type = "Music"
	TypePhotography Type = "Photography"
	TypeArt         Type = "Art"
	TypeITSoftware  Type = "IT & Software"
	TypeBusiness    Type = "Business"
	TypeDesign      Type = "Design"
	TypeLifestyle   Type = "Lifestyle"
	TypeTravel      Type = "Travel"
	TypeHealth      Type = "Health"
	TypeFitness     Type = "Fitness"
	TypeHistory     Type = "History"
	TypeGeography   Type = "Geography"
	TypeEconomy     Type = "Economy"
	TypeLiterature  Type = "Literature"
	TypeOther       Type = "Other"
)

// AllTypes lists every valid course type.
func AllTypes() []Type {
	return []Type{
		TypeLanguage, TypeProgramming, TypeMath, TypeEngineering, TypePhysics,
		TypeChemistry, TypeBiology, TypeMusic, TypePhotography, TypeArt,
		TypeITSoftware, TypeBusiness, TypeDesign, TypeLifestyle, TypeTravel,
		TypeHealth, TypeFitness, TypeHistory, TypeGeography, TypeEconomy,
		TypeLiterature, TypeOther,
	}
}

// ParseType validates and converts a string into a course Type.
func ParseType(s string) (Type, error) {
	for _, t := range AllTypes() {
		if Type(s) == t {
			return t, nil
		}
	}
	return "", shared.NewDomainError("course", "ParseType", shared.ErrInvalidInput, "invalid course type")
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT TREE
// ══════════════════════════════════════════════════════════════════════════════

// Section is a single video unit inside an article.
type Section struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	VideoURL      string    `json:"videoUrl"`
	VideoDuration int       `json:"videoDuration"` // seconds, probed at upload time
	CreatedAt     time.Time `json:"createdAt"`
}

// Article is an ordered group of sections inside a course.
// Order is the authoritative position and stays contiguous 0..n-1.
type Article struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AuthorID    string    `json:"authorId"`
	Order       int       `json:"order"`
	Sections    []Section `json:"sections"`
	Duration    int       `json:"duration"` // derived: sum of section video durations
	CreatedAt   time.Time `json:"createdAt"`
}

// Course is the aggregate root of the content tree. Articles and their
// sections are embedded and persisted as part of the course document.
type Course struct {
	ID               string
	Name             string
	Type             Type
	Description      string
	AuthorID         string
	Articles         []Article
	IndexPhotoURL    string
	EnrolledStudents int
	Difficulty       Difficulty
	Price            float64
	Visibility       Visibility
	Duration         int // derived: sum of article durations
	Views            []time.Time
	CreatedAt        time.Time
}

// New creates a new course in the PRIVATE state with no content.
func New(id, name string, courseType Type, authorID string, difficulty Difficulty, price float64, now time.Time) (*Course, error) {
	if id == "" || authorID == "" {
		return nil, shared.NewDomainError("course", "New", shared.ErrInvalidID, "course and author IDs are required")
	}
	if name == "" {
		return nil, shared.NewDomainError("course", "New", shared.ErrEmptyValue, "course name is required")
	}
	if price < 0 {
		return nil, shared.NewDomainError("course", "New", shared.ErrNegativeValue, "price cannot be negative")
	}

	return &Course{
		ID:         id,
		Name:       name,
		Type:       courseType,
		AuthorID:   authorID,
		Articles:   []Article{},
		Difficulty: difficulty,
		Price:      price,
		Visibility: VisibilityPrivate,
		Views:      []time.Time{},
		CreatedAt:  now,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookup
// ─────────────────────────────────────────────────────────────────────────────

// FindArticle returns a pointer to the article with the given ID.
// Returns ErrArticleNotFound if absent.
func (c *Course) FindArticle(articleID string) (*Article, error) {
	for i := range c.Articles {
		if c.Articles[i].ID == articleID {
			return &c.Articles[i], nil
		}
	}
	return nil, shared.ErrArticleNotFound
}

// FindSection returns a pointer to the section within the given article.
func (c *Course) FindSection(articleID, sectionID string) (*Section, error) {
	article, err := c.FindArticle(articleID)
	if err != nil {
		return nil, err
	}
	for i := range article.Sections {
		if article.Sections[i].ID == sectionID {
			return &article.Sections[i], nil
		}
	}
	return nil, shared.ErrSectionNotFound
}

// HasArticleNamed reports whether an article with the given name exists.
func (c *Course) HasArticleNamed(name string) bool {
	for i := range c.Articles {
		if c.Articles[i].Name == name {
			return true
		}
	}
	return false
}

// HasSectionTitled reports whether the article has a section with this title.
func (a *Article) HasSectionTitled(title string) bool {
	for i := range a.Sections {
		if a.Sections[i].Title == title {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Authoring operations
// Every content mutation recomputes derived durations and demotes the course
// to PRIVATE: edited courses must be re-reviewed before going public again.
// ─────────────────────────────────────────────────────────────────────────────

// AddArticle appends a new empty article at the end of the order.
func (c *Course) AddArticle(id, name, authorID string, now time.Time) (*Article, error) {
	if id == "" {
		return nil, shared.NewDomainError("course", "AddArticle", shared.ErrInvalidID, "article ID is required")
	}
	if c.HasArticleNamed(name) {
		return nil, shared.ErrArticleNameTaken
	}

	c.Articles = append(c.Articles, Article{
		ID:        id,
		Name:      name,
		AuthorID:  authorID,
		Order:     len(c.Articles),
		Sections:  []Section{},
		CreatedAt: now,
	})
	c.markEdited()
	return &c.Articles[len(c.Articles)-1], nil
}

// RemoveArticle deletes an article that has no sections left and closes the
// gap so that orders remain a contiguous 0..n-1 run.
func (c *Course) RemoveArticle(articleID string) error {
	idx := -1
	for i := range c.Articles {
		if c.Articles[i].ID == articleID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return shared.ErrArticleNotFound
	}
	if len(c.Articles[idx].Sections) > 0 {
		return shared.ErrArticleHasSections
	}

	c.Articles = append(c.Articles[:idx], c.Articles[idx+1:]...)
	for i := range c.Articles {
		c.Articles[i].Order = i
	}
	c.markEdited()
	return nil
}

// RenameArticle updates an article's name and description.
func (c *Course) RenameArticle(articleID, name, description string) error {
	article, err := c.FindArticle(articleID)
	if err != nil {
		return err
	}
	if name != "" && name != article.Name {
		if c.HasArticleNamed(name) {
			return shared.ErrArticleNameTaken
		}
		article.Name = name
	}
	article.Description = description
	c.markEdited()
	return nil
}

// AddSection appends a section to an article.
func (c *Course) AddSection(articleID, sectionID, title, videoURL string, videoDuration int, now time.Time) error {
	article, err := c.FindArticle(articleID)
	if err != nil {
		return err
	}
	if article.HasSectionTitled(title) {
		return shared.ErrSectionTitleTaken
	}
	if videoDuration < 0 {
		return shared.NewDomainError("course", "AddSection", shared.ErrNegativeValue, "video duration cannot be negative")
	}

	article.Sections = append(article.Sections, Section{
		ID:            sectionID,
		Title:         title,
		VideoURL:      videoURL,
		VideoDuration: videoDuration,
		CreatedAt:     now,
	})
	c.markEdited()
	return nil
}

// RemoveSection deletes a section from an article.
func (c *Course) RemoveSection(articleID, sectionID string) error {
	article, err := c.FindArticle(articleID)
	if err != nil {
		return err
	}
	idx := -1
	for i := range article.Sections {
		if article.Sections[i].ID == sectionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return shared.ErrSectionNotFound
	}

	article.Sections = append(article.Sections[:idx], article.Sections[idx+1:]...)
	c.markEdited()
	return nil
}

// UpdateSection replaces a section's title and, when a new video was
// uploaded, its URL and probed duration.
func (c *Course) UpdateSection(articleID, sectionID, title, videoURL string, videoDuration int) error {
	section, err := c.FindSection(articleID, sectionID)
	if err != nil {
		return err
	}
	if title != "" {
		section.Title = title
	}
	if videoURL != "" {
		section.VideoURL = videoURL
		if videoDuration < 0 {
			return shared.NewDomainError("course", "UpdateSection", shared.ErrNegativeValue, "video duration cannot be negative")
		}
		section.VideoDuration = videoDuration
	}
	c.markEdited()
	return nil
}

// markEdited recomputes derived durations and demotes visibility.
func (c *Course) markEdited() {
	c.RecomputeDurations()
	if c.Visibility != VisibilityPrivate {
		// Automated demotion bypasses the same-state transition check.
		c.Visibility = VisibilityPrivate
	}
}

// RecomputeDurations rebuilds the derived duration fields bottom-up.
// Article.Duration and Course.Duration are never stored independently of
// the section video durations they are computed from.
func (c *Course) RecomputeDurations() {
	total := 0
	for i := range c.Articles {
		articleTotal := 0
		for j := range c.Articles[i].Sections {
			articleTotal += c.Articles[i].Sections[j].VideoDuration
		}
		c.Articles[i].Duration = articleTotal
		total += articleTotal
	}
	c.Duration = total
}
