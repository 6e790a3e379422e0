package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/internal/domain/shared"
)

func TestToggleWishlist(t *testing.T) {
	u := student(t, "u1")
	users := newFakeUserRepo(u)
	h := NewAccountHandler(users, newFakeNotifier(), true, testLogger())

	require.NoError(t, h.ToggleWishlist(context.Background(), "u1", "c1"))
	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, stored.IsWishlisted("c1"))

	require.NoError(t, h.ToggleWishlist(context.Background(), "u1", "c1"))
	assert.False(t, stored.IsWishlisted("c1"), "second toggle removes the course again")
}

func TestToggleWishlistDisabled(t *testing.T) {
	u := student(t, "u1")
	users := newFakeUserRepo(u)
	h := NewAccountHandler(users, newFakeNotifier(), false, testLogger())

	err := h.ToggleWishlist(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, shared.ErrForbidden)

	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, stored.IsWishlisted("c1"))
}
