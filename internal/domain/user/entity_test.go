package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/internal/domain/shared"
)

var now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func newUser(t *testing.T) *User {
	t.Helper()
	u, err := New("u1", "Aruzhan", "Seitkali", "aruzhan@example.com", "hashed", now)
	require.NoError(t, err)
	return u
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "A", "B", "a@b.c", "h", now)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New("u1", "", "B", "a@b.c", "h", now)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = New("u1", "A", "B", "", "h", now)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestNewDefaultsToStudent(t *testing.T) {
	u := newUser(t)
	assert.Equal(t, RoleStudent, u.Role)
	assert.Empty(t, u.PendingRole)
	assert.Equal(t, "Aruzhan Seitkali", u.FullName())
}

func TestAddEnrollmentSnapshotsPrice(t *testing.T) {
	u := newUser(t)

	e, err := u.AddEnrollment("c1", 49.99, now)
	require.NoError(t, err)
	assert.Equal(t, 49.99, e.EnrollmentCost)
	assert.Equal(t, now, e.EnrolledAt)
	assert.NotNil(t, e.ArticleProgresses)

	// The snapshot belongs to the ledger entry, not the course.
	entry, ok := u.Enrollment("c1")
	require.True(t, ok)
	assert.Equal(t, 49.99, entry.EnrollmentCost)
}

func TestAddEnrollmentRejectsDuplicate(t *testing.T) {
	u := newUser(t)

	_, err := u.AddEnrollment("c1", 10, now)
	require.NoError(t, err)

	_, err = u.AddEnrollment("c1", 20, now.Add(time.Hour))
	assert.ErrorIs(t, err, shared.ErrAlreadyEnrolled)
	require.Len(t, u.EnrolledCourses, 1)
	assert.Equal(t, 10.0, u.EnrolledCourses[0].EnrollmentCost)
}

func TestIsEnrolled(t *testing.T) {
	u := newUser(t)
	assert.False(t, u.IsEnrolled("c1"))

	_, err := u.AddEnrollment("c1", 0, now)
	require.NoError(t, err)
	assert.True(t, u.IsEnrolled("c1"))
	assert.False(t, u.IsEnrolled("c2"))
}

func TestWishlistToggle(t *testing.T) {
	u := newUser(t)

	u.ToggleWishlist("c1")
	assert.True(t, u.IsWishlisted("c1"))

	u.ToggleWishlist("c1")
	assert.False(t, u.IsWishlisted("c1"))
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	u := newUser(t)

	u.AddToWishlist("c1")
	u.AddToWishlist("c1")
	assert.Len(t, u.WishlistedIDs, 1)

	u.AddToWishlist("c2")
	u.RemoveFromWishlist("c1")
	assert.Equal(t, []string{"c2"}, u.WishlistedIDs)
}

func TestRequestRole(t *testing.T) {
	u := newUser(t)

	require.NoError(t, u.RequestRole(RoleTeacher))
	assert.Equal(t, RoleTeacher, u.PendingRole)
	assert.Equal(t, RoleStudent, u.Role, "the role changes only after admin approval")

	assert.ErrorIs(t, u.RequestRole("superuser"), shared.ErrInvalidRole)
}

func TestHandleRoleRequestAccepted(t *testing.T) {
	u := newUser(t)
	require.NoError(t, u.RequestRole(RoleTeacher))

	require.NoError(t, u.HandleRoleRequest(true))
	assert.Equal(t, RoleTeacher, u.Role)
	assert.Empty(t, u.PendingRole)
}

func TestHandleRoleRequestRejected(t *testing.T) {
	u := newUser(t)
	require.NoError(t, u.RequestRole(RoleTeacher))

	require.NoError(t, u.HandleRoleRequest(false))
	assert.Equal(t, RoleStudent, u.Role)
	assert.Empty(t, u.PendingRole, "a rejected request is cleared, not retried")
}

func TestHandleRoleRequestWithoutPending(t *testing.T) {
	u := newUser(t)
	assert.ErrorIs(t, u.HandleRoleRequest(true), shared.ErrNoPendingRole)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "student", "teacher"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := ParseRole("Teacher")
	assert.ErrorIs(t, err, shared.ErrInvalidRole)
}
