// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "course", "enrollment", "progress"
	Op      string // Operation that failed, e.g., "Enroll", "RecordProgress"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Course domain errors
var (
	ErrCourseNotFound         = NewDomainError("course", "Find", ErrNotFound, "course not found")
	ErrArticleNotFound        = NewDomainError("course", "FindArticle", ErrNotFound, "article not found")
	ErrSectionNotFound        = NewDomainError("course", "FindSection", ErrNotFound, "section not found")
	ErrCourseNameTaken        = NewDomainError("course", "Create", ErrAlreadyExists, "course name already used by this author")
	ErrArticleNameTaken       = NewDomainError("course", "AddArticle", ErrAlreadyExists, "article with this name already exists")
	ErrSectionTitleTaken      = NewDomainError("course", "AddSection", ErrAlreadyExists, "section with this title already exists")
	ErrArticleHasSections     = NewDomainError("course", "RemoveArticle", ErrInvalidState, "article has sections, delete sections first")
	ErrSameVisibilityState    = NewDomainError("course", "ChangeVisibility", ErrStateTransition, "course is already in this state")
	ErrUnknownVisibilityState = NewDomainError("course", "ChangeVisibility", ErrInvalidInput, "unknown visibility state")
)

// User domain errors
var (
	ErrUserNotFound     = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrInvalidRole      = NewDomainError("user", "Validate", ErrInvalidInput, "invalid role")
	ErrNoPendingRole    = NewDomainError("user", "HandleRoleRequest", ErrInvalidState, "user has no pending role")
	ErrPasswordMismatch = NewDomainError("user", "UpdatePassword", ErrInvalidInput, "invalid password")
	ErrPasswordNotNew   = NewDomainError("user", "UpdatePassword", ErrInvalidInput, "the new password must be different")
)

// Enrollment domain errors
var (
	ErrAlreadyEnrolled         = NewDomainError("enrollment", "Enroll", ErrAlreadyExists, "already enrolled in this course")
	ErrCourseNotPublic         = NewDomainError("enrollment", "Enroll", ErrForbidden, "course is not public")
	ErrSelfEnrollmentForbidden = NewDomainError("enrollment", "Enroll", ErrForbidden, "cannot enroll in own course")
	ErrEnrollmentNotFound      = NewDomainError("enrollment", "Find", ErrNotFound, "enrollment not found")
)

// Progress domain errors
var (
	ErrInvalidProgress = NewDomainError("progress", "Record", ErrValueOutOfRange, "watched seconds out of range")
)

// External service errors
var (
	ErrNotificationFailed = NewDomainError("notify", "Send", ErrExternalService, "failed to send notification")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
