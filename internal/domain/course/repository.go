package course

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Implementations live in infrastructure/persistence.
// A course document embeds its full article/section tree; Update re-saves
// the whole document.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for courses.
type Repository interface {
	// Create persists a new course.
	// Returns ErrCourseNameTaken if the author already has a course with
	// the same name.
	Create(ctx context.Context, c *Course) error

	// GetByID returns a course by ID.
	// Returns ErrCourseNotFound if absent.
	GetByID(ctx context.Context, id string) (*Course, error)

	// GetByIDs returns the courses matching the given IDs, optionally
	// restricted to public ones.
	GetByIDs(ctx context.Context, ids []string, onlyPublic bool) ([]*Course, error)

	// GetByAuthor returns all courses created by the given author.
	GetByAuthor(ctx context.Context, authorID string, onlyPublic bool) ([]*Course, error)

	// ExistsByNameAndAuthor reports whether the author already has a course
	// with this name.
	ExistsByNameAndAuthor(ctx context.Context, name, authorID string) (bool, error)

	// Update re-saves the whole course document (content tree included).
	// Returns ErrCourseNotFound if absent.
	Update(ctx context.Context, c *Course) error

	// Delete removes a course document.
	Delete(ctx context.Context, id string) error

	// IncrementEnrolledStudents atomically bumps the enrollment counter by
	// one at the store level, avoiding a read-modify-write race.
	IncrementEnrolledStudents(ctx context.Context, id string) error

	// UpdateViews rewrites the course view log without touching the rest
	// of the document.
	UpdateViews(ctx context.Context, id string, views []time.Time) error
}
