package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT COMMANDS
// Registration, password change, role requests and account deletion.
// Passwords are hashed with bcrypt and never leave this package in clear.
// ══════════════════════════════════════════════════════════════════════════════

// AccountHandler handles account lifecycle commands.
type AccountHandler struct {
	users    user.Repository
	notifier Notifier
	log      *logger.Logger

	// wishlistEnabled mirrors the Wishlist config flag.
	wishlistEnabled bool
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(users user.Repository, notifier Notifier, wishlistEnabled bool, log *logger.Logger) *AccountHandler {
	return &AccountHandler{users: users, notifier: notifier, wishlistEnabled: wishlistEnabled, log: log}
}

// RegisterCommand contains the data to register a new account.
type RegisterCommand struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Validate validates the command.
func (c RegisterCommand) Validate() error {
	if c.FirstName == "" || c.LastName == "" {
		return shared.NewDomainError("user", "Register", shared.ErrEmptyValue, "first and last name are required")
	}
	if c.Email == "" {
		return shared.NewDomainError("user", "Register", shared.ErrEmptyValue, "email is required")
	}
	if len(c.Password) < 8 {
		return shared.NewDomainError("user", "Register", shared.ErrValidation, "password must be at least 8 characters")
	}
	return nil
}

// Register creates a new student account and returns its ID.
// The email must not already be registered.
func (h *AccountHandler) Register(ctx context.Context, cmd RegisterCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	if _, err := h.users.GetByEmail(ctx, cmd.Email); err == nil {
		return "", shared.NewDomainError("user", "Register", shared.ErrAlreadyExists, "email is already registered")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", shared.WrapError("user", "Register", shared.ErrValidation, "failed to hash password", err)
	}

	u, err := user.New(uuid.NewString(), cmd.FirstName, cmd.LastName, cmd.Email, string(hashed), timeutil.Now())
	if err != nil {
		return "", err
	}
	if err := h.users.Create(ctx, u); err != nil {
		return "", err
	}

	h.log.Info("user registered", logger.F("user_id", u.ID))
	return u.ID, nil
}

// ChangePasswordCommand contains the data to change a password.
type ChangePasswordCommand struct {
	UserID      string
	OldPassword string
	NewPassword string
}

// ChangePassword replaces the user's password.
//
// The old password must verify against the stored hash and the new password
// must actually differ from the old one; violations surface as
// PasswordMismatch and PasswordNotNew domain errors.
func (h *AccountHandler) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) error {
	if cmd.UserID == "" {
		return shared.NewDomainError("user", "ChangePassword", shared.ErrInvalidID, "user ID is required")
	}
	if len(cmd.NewPassword) < 8 {
		return shared.NewDomainError("user", "ChangePassword", shared.ErrValidation, "password must be at least 8 characters")
	}

	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(cmd.OldPassword)); err != nil {
		return shared.ErrPasswordMismatch
	}
	if cmd.OldPassword == cmd.NewPassword {
		return shared.ErrPasswordNotNew
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cmd.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return shared.WrapError("user", "ChangePassword", shared.ErrValidation, "failed to hash password", err)
	}
	u.HashedPassword = string(hashed)
	return h.users.Update(ctx, u)
}

// RequestRole records a pending role change for admin review.
func (h *AccountHandler) RequestRole(ctx context.Context, userID string, role user.Role) error {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.RequestRole(role); err != nil {
		return err
	}
	return h.users.Update(ctx, u)
}

// ResolveRoleRequest accepts or refuses the user's pending role request and
// notifies the user about the decision (fire-and-forget).
func (h *AccountHandler) ResolveRoleRequest(ctx context.Context, userID string, accepted bool) error {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.HandleRoleRequest(accepted); err != nil {
		return err
	}
	if err := h.users.Update(ctx, u); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifier.NotifyRoleDecision(ctx, u, accepted); err != nil {
			h.log.Warn("role decision notification failed",
				logger.F("user_id", u.ID), logger.Err(err))
		}
	}()

	return nil
}

// ToggleWishlist flips wishlist membership for the course.
func (h *AccountHandler) ToggleWishlist(ctx context.Context, userID, courseID string) error {
	if !h.wishlistEnabled {
		return shared.NewDomainError("user", "ToggleWishlist", shared.ErrForbidden, "wishlisting is currently disabled")
	}
	if courseID == "" {
		return shared.NewDomainError("user", "ToggleWishlist", shared.ErrInvalidID, "course ID is required")
	}
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.ToggleWishlist(courseID)
	return h.users.Update(ctx, u)
}

// Delete removes the account and sends the deletion confirmation
// (fire-and-forget).
func (h *AccountHandler) Delete(ctx context.Context, userID string) error {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := h.users.Delete(ctx, userID); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifier.NotifyUserDeleted(ctx, u); err != nil {
			h.log.Warn("account deletion notification failed",
				logger.F("user_id", u.ID), logger.Err(err))
		}
	}()

	h.log.Info("user deleted", logger.F("user_id", userID))
	return nil
}
