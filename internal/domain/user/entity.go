// Package user contains the user aggregate: account data, the wishlist,
// the activity log, and the enrollment ledger with its nested progress
// records. A user document embeds all of this; mutations operate on the
// in-memory tree and the whole document is re-saved by the repository.
// This is a pure domain layer with zero external dependencies.
package user

import (
	"time"

	"github.com/eduhub/course-hub/internal/domain/activity"
	"github.com/eduhub/course-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLES
// ══════════════════════════════════════════════════════════════════════════════

// Role represents the platform role of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole validates and converts a string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStudent, RoleTeacher:
		return Role(s), nil
	default:
		return "", shared.ErrInvalidRole
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS RECORDS
// ══════════════════════════════════════════════════════════════════════════════

// SectionProgress records how many seconds of a section's video the user has
// watched. WatchedSecs is monotonically non-decreasing per section.
type SectionProgress struct {
	SectionID   string `json:"sectionId"`
	WatchedSecs int    `json:"watchedSecs"`
}

// ArticleProgress groups section progress records under one article.
// Sections keep insertion order and hold at most one entry per section ID.
type ArticleProgress struct {
	ArticleID string            `json:"articleId"`
	Sections  []SectionProgress `json:"sections"`
}

// EnrolledCourse is one entry of the enrollment ledger. It is created once,
// on enrollment, and afterwards mutated only by progress updates.
// EnrollmentCost snapshots the course price at enrollment time and is
// immutable: later price changes do not affect existing enrollments.
type EnrolledCourse struct {
	CourseID          string            `json:"courseId"`
	EnrolledAt        time.Time         `json:"enrolledAt"`
	EnrollmentCost    float64           `json:"enrollmentCost"`
	ArticleProgresses []ArticleProgress `json:"articleProgresses"`
}

// ══════════════════════════════════════════════════════════════════════════════
// USER AGGREGATE
// ══════════════════════════════════════════════════════════════════════════════

// User is the aggregate root of the account document.
type User struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	HashedPassword  string
	PhotoURL        string
	Bio             string
	Role            Role
	PendingRole     Role // empty when no role change is requested
	EnrolledCourses []EnrolledCourse
	WishlistedIDs   []string
	LastLogin       time.Time
	LastAction      activity.DateLog
	CreatedAt       time.Time
}

// New creates a new user with the student role.
func New(id, firstName, lastName, email, hashedPassword string, now time.Time) (*User, error) {
	if id == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrInvalidID, "user ID is required")
	}
	if firstName == "" || lastName == "" || email == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrEmptyValue, "name and email are required")
	}

	return &User{
		ID:              id,
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		HashedPassword:  hashedPassword,
		Role:            RoleStudent,
		EnrolledCourses: []EnrolledCourse{},
		WishlistedIDs:   []string{},
		LastAction:      activity.DateLog{},
		CreatedAt:       now,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Enrollment ledger
// ─────────────────────────────────────────────────────────────────────────────

// Enrollment returns the ledger entry for the given course, if any.
func (u *User) Enrollment(courseID string) (*EnrolledCourse, bool) {
	for i := range u.EnrolledCourses {
		if u.EnrolledCourses[i].CourseID == courseID {
			return &u.EnrolledCourses[i], true
		}
	}
	return nil, false
}

// IsEnrolled reports whether the user is enrolled in the course.
func (u *User) IsEnrolled(courseID string) bool {
	_, ok := u.Enrollment(courseID)
	return ok
}

// AddEnrollment appends a new ledger entry snapshotting the price at this
// instant. A user holds at most one entry per course.
func (u *User) AddEnrollment(courseID string, price float64, now time.Time) (*EnrolledCourse, error) {
	if u.IsEnrolled(courseID) {
		return nil, shared.ErrAlreadyEnrolled
	}

	u.EnrolledCourses = append(u.EnrolledCourses, EnrolledCourse{
		CourseID:          courseID,
		EnrolledAt:        now,
		EnrollmentCost:    price,
		ArticleProgresses: []ArticleProgress{},
	})
	return &u.EnrolledCourses[len(u.EnrolledCourses)-1], nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Wishlist
// ─────────────────────────────────────────────────────────────────────────────

// IsWishlisted reports whether the course is on the wishlist.
func (u *User) IsWishlisted(courseID string) bool {
	for _, id := range u.WishlistedIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// AddToWishlist adds the course to the wishlist if not already present.
func (u *User) AddToWishlist(courseID string) {
	if !u.IsWishlisted(courseID) {
		u.WishlistedIDs = append(u.WishlistedIDs, courseID)
	}
}

// RemoveFromWishlist removes the course from the wishlist.
func (u *User) RemoveFromWishlist(courseID string) {
	filtered := u.WishlistedIDs[:0]
	for _, id := range u.WishlistedIDs {
		if id != courseID {
			filtered = append(filtered, id)
		}
	}
	u.WishlistedIDs = filtered
}

// ToggleWishlist flips wishlist membership for the course.
func (u *User) ToggleWishlist(courseID string) {
	if u.IsWishlisted(courseID) {
		u.RemoveFromWishlist(courseID)
	} else {
		u.AddToWishlist(courseID)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Roles
// ─────────────────────────────────────────────────────────────────────────────

// RequestRole records a pending role change awaiting admin review.
func (u *User) RequestRole(role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	u.PendingRole = role
	return nil
}

// HandleRoleRequest resolves the pending role request.
// Returns the decision outcome so the caller can notify the user.
func (u *User) HandleRoleRequest(accepted bool) error {
	if u.PendingRole == "" {
		return shared.ErrNoPendingRole
	}
	if accepted {
		u.Role = u.PendingRole
	}
	u.PendingRole = ""
	return nil
}

// FullName returns the display name of the user.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
