package course

import "github.com/eduhub/course-hub/internal/domain/shared"

// Visibility represents the publication status of a course.
//
// Courses move PRIVATE → PENDING → PUBLIC through review, and fall back to
// PRIVATE automatically whenever their content is edited.
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
	VisibilityPending Visibility = "Pending"
)

// ParseVisibility validates and converts a string into a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityPrivate, VisibilityPending:
		return Visibility(s), nil
	default:
		return "", shared.ErrUnknownVisibilityState
	}
}

// IsPublic reports whether the course is visible to students.
func (c *Course) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

// ChangeVisibility performs an explicit visibility transition.
// A transition to the current state is rejected with ErrSameVisibilityState.
// Returns true when the course became PUBLIC, so the caller can trigger the
// published notification.
func (c *Course) ChangeVisibility(newState Visibility) (published bool, err error) {
	if _, err := ParseVisibility(string(newState)); err != nil {
		return false, err
	}
	if c.Visibility == newState {
		return false, shared.ErrSameVisibilityState
	}
	c.Visibility = newState
	return newState == VisibilityPublic, nil
}
