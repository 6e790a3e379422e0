package user

import (
	"context"

	"github.com/eduhub/course-hub/internal/domain/activity"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Implementations live in infrastructure/persistence.
// The user document embeds the enrollment ledger, wishlist, and activity
// log; Update re-saves the whole document.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for users.
type Repository interface {
	// Create persists a new user.
	// Returns a wrapped shared.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u *User) error

	// GetByID returns a user by ID.
	// Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns a user by email.
	// Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update re-saves the whole user document.
	// Returns ErrUserNotFound if absent.
	Update(ctx context.Context, u *User) error

	// Delete removes a user document (full account deletion, the only path
	// that ever drops enrollment ledger entries).
	Delete(ctx context.Context, id string) error

	// UpdateEnrollments applies fn to the user's document under a row lock
	// and writes the enrollment ledger and wishlist back in the same
	// transaction. This closes the read-modify-write race between concurrent
	// enrollments and progress updates for the same user while preserving
	// the whole-document write boundary.
	UpdateEnrollments(ctx context.Context, id string, fn func(u *User) error) error

	// UpdateLastAction rewrites only the activity log column.
	UpdateLastAction(ctx context.Context, id string, log activity.DateLog) error
}
