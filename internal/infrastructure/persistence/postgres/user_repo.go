package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eduhub/course-hub/internal/domain/activity"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY
// A user row embeds the enrollment ledger, wishlist and activity log as
// JSONB. Plain writes re-save the whole document; progress updates run
// under a row lock so concurrent watch events for one user serialize.
// ══════════════════════════════════════════════════════════════════════════════

const userColumns = `
	id, first_name, last_name, email, hashed_password, photo_url, bio,
	role, pending_role, enrolled_courses, wishlisted_ids, last_login,
	last_action, created_at`

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create persists a new user document.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	enrolled, wishlist, lastAction, err := marshalUserDocs(u)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.HashedPassword, u.PhotoURL, u.Bio,
		string(u.Role), string(u.PendingRole), enrolled, wishlist, nullableTime(u.LastLogin),
		lastAction, u.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("user", "Create", shared.ErrAlreadyExists, "email is already registered")
		}
		return fmt.Errorf("postgres: create user: %w", err)
	}
	return nil
}

// GetByID returns a user by ID, ErrUserNotFound if absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns a user by email, ErrUserNotFound if absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Update re-saves the whole user document.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	enrolled, wishlist, lastAction, err := marshalUserDocs(u)
	if err != nil {
		return err
	}

	tag, err := r.conn.Exec(ctx, `
		UPDATE users SET
			first_name = $2, last_name = $3, email = $4, hashed_password = $5,
			photo_url = $6, bio = $7, role = $8, pending_role = $9,
			enrolled_courses = $10, wishlisted_ids = $11, last_login = $12,
			last_action = $13
		WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Email, u.HashedPassword,
		u.PhotoURL, u.Bio, string(u.Role), string(u.PendingRole),
		enrolled, wishlist, nullableTime(u.LastLogin),
		lastAction,
	)
	if err != nil {
		return fmt.Errorf("postgres: update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// Delete removes a user document.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// UpdateEnrollments loads the user under FOR UPDATE, applies fn to the
// in-memory document, and writes the enrollment ledger and wishlist back in
// the same transaction. Two concurrent ledger mutations for the same user
// serialize on the row lock; the second observes the first's writes.
func (r *UserRepository) UpdateEnrollments(ctx context.Context, id string, fn func(u *user.User) error) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
		u, err := scanUser(row)
		if err != nil {
			return err
		}

		if err := fn(u); err != nil {
			return err
		}

		enrolled, err := json.Marshal(u.EnrolledCourses)
		if err != nil {
			return fmt.Errorf("postgres: marshal enrollments: %w", err)
		}
		wishlist, err := json.Marshal(u.WishlistedIDs)
		if err != nil {
			return fmt.Errorf("postgres: marshal wishlist: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE users SET enrolled_courses = $2, wishlisted_ids = $3 WHERE id = $1`,
			id, enrolled, wishlist)
		return err
	})
}

// UpdateLastAction rewrites the activity log without touching the rest of
// the document.
func (r *UserRepository) UpdateLastAction(ctx context.Context, id string, log activity.DateLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("postgres: marshal last action: %w", err)
	}

	tag, err := r.conn.Exec(ctx, `UPDATE users SET last_action = $2 WHERE id = $1`, id, data)
	if err != nil {
		return fmt.Errorf("postgres: update last action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

func marshalUserDocs(u *user.User) (enrolled, wishlist, lastAction []byte, err error) {
	if enrolled, err = json.Marshal(u.EnrolledCourses); err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: marshal enrollments: %w", err)
	}
	if wishlist, err = json.Marshal(u.WishlistedIDs); err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: marshal wishlist: %w", err)
	}
	if lastAction, err = json.Marshal(u.LastAction); err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: marshal last action: %w", err)
	}
	return enrolled, wishlist, lastAction, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u          user.User
		role       string
		pending    string
		enrolled   []byte
		wishlist   []byte
		lastAction []byte
		lastLogin  *time.Time
	)

	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.HashedPassword,
		&u.PhotoURL, &u.Bio, &role, &pending, &enrolled, &wishlist,
		&lastLogin, &lastAction, &u.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres: scan user: %w", err)
	}

	u.Role = user.Role(role)
	u.PendingRole = user.Role(pending)
	if lastLogin != nil {
		u.LastLogin = *lastLogin
	}

	if err := json.Unmarshal(enrolled, &u.EnrolledCourses); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal enrollments: %w", err)
	}
	if err := json.Unmarshal(wishlist, &u.WishlistedIDs); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal wishlist: %w", err)
	}
	if err := json.Unmarshal(lastAction, &u.LastAction); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal last action: %w", err)
	}

	return &u, nil
}

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
