package command

import (
	"context"

	"github.com/eduhub/course-hub/internal/domain/activity"
	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY & VIEW RECORDING
// Both commands feed the statistics query engine: user activity is the
// collapsed one-entry-per-day log written on every authenticated request,
// course views are an uncollapsed log where every view counts.
// ══════════════════════════════════════════════════════════════════════════════

// RecordActivityHandler appends to a user's last-action log.
type RecordActivityHandler struct {
	users user.Repository
	log   *logger.Logger

	// enabled mirrors the TrackActivity config flag; test runs disable it
	// so fixtures don't accumulate activity entries.
	enabled bool
}

// NewRecordActivityHandler creates a RecordActivityHandler.
func NewRecordActivityHandler(users user.Repository, enabled bool, log *logger.Logger) *RecordActivityHandler {
	return &RecordActivityHandler{users: users, enabled: enabled, log: log}
}

// Handle records an authenticated action for the user: at most one entry per
// UTC calendar day, history pruned to the 90 day retention window.
func (h *RecordActivityHandler) Handle(ctx context.Context, userID string) error {
	if !h.enabled {
		return nil
	}

	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	u.LastAction.Register(timeutil.Now(), activity.UserActionOptions())
	return h.users.UpdateLastAction(ctx, u.ID, u.LastAction)
}

// RegisterViewHandler appends to a course's view log.
type RegisterViewHandler struct {
	courses course.Repository
	log     *logger.Logger

	// enabled mirrors the TrackViews config flag.
	enabled bool
}

// NewRegisterViewHandler creates a RegisterViewHandler.
func NewRegisterViewHandler(courses course.Repository, enabled bool, log *logger.Logger) *RegisterViewHandler {
	return &RegisterViewHandler{courses: courses, enabled: enabled, log: log}
}

// Handle records one course view. Every view counts (no same-day collapse)
// and view history is retained indefinitely on this path.
func (h *RegisterViewHandler) Handle(ctx context.Context, courseID string) error {
	if !h.enabled {
		return nil
	}

	c, err := h.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	views := activity.DateLog(c.Views)
	views.Register(timeutil.Now(), activity.ViewOptions())
	return h.courses.UpdateViews(ctx, c.ID, views)
}
