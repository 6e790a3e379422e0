package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY
// A course row embeds the article/section tree and the view log as JSONB.
// The enrollment counter is bumped with a single UPDATE so concurrent
// enrollments never read-modify-write each other away.
// ══════════════════════════════════════════════════════════════════════════════

const courseColumns = `
	id, name, type, description, author_id, articles, index_photo_url,
	enrolled_students, difficulty, price, visibility, duration, views,
	created_at`

// CourseRepository implements course.Repository backed by PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// Create persists a new course document.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	articles, views, err := marshalCourseDocs(c)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, `
		INSERT INTO courses (`+courseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.Name, string(c.Type), c.Description, c.AuthorID, articles,
		c.IndexPhotoURL, c.EnrolledStudents, string(c.Difficulty), c.Price,
		string(c.Visibility), c.Duration, views, c.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrCourseNameTaken
		}
		return fmt.Errorf("postgres: create course: %w", err)
	}
	return nil
}

// GetByID returns a course by ID, ErrCourseNotFound if absent.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

// GetByIDs returns the courses matching the given IDs.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []string, onlyPublic bool) ([]*course.Course, error) {
	if len(ids) == 0 {
		return []*course.Course{}, nil
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`
	args := []any{ids}
	if onlyPublic {
		query += ` AND visibility = $2`
		args = append(args, string(course.VisibilityPublic))
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: courses by ids: %w", err)
	}
	defer rows.Close()
	return scanCourses(rows)
}

// GetByAuthor returns all courses created by the given author.
func (r *CourseRepository) GetByAuthor(ctx context.Context, authorID string, onlyPublic bool) ([]*course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE author_id = $1`
	args := []any{authorID}
	if onlyPublic {
		query += ` AND visibility = $2`
		args = append(args, string(course.VisibilityPublic))
	}
	query += ` ORDER BY created_at`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: courses by author: %w", err)
	}
	defer rows.Close()
	return scanCourses(rows)
}

// ExistsByNameAndAuthor reports whether the author already has a course with
// this name.
func (r *CourseRepository) ExistsByNameAndAuthor(ctx context.Context, name, authorID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE name = $1 AND author_id = $2)`,
		name, authorID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: course name check: %w", err)
	}
	return exists, nil
}

// Update re-saves the whole course document, content tree included.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	articles, views, err := marshalCourseDocs(c)
	if err != nil {
		return err
	}

	tag, err := r.conn.Exec(ctx, `
		UPDATE courses SET
			name = $2, type = $3, description = $4, articles = $5,
			index_photo_url = $6, difficulty = $7, price = $8,
			visibility = $9, duration = $10, views = $11
		WHERE id = $1`,
		c.ID, c.Name, string(c.Type), c.Description, articles,
		c.IndexPhotoURL, string(c.Difficulty), c.Price,
		string(c.Visibility), c.Duration, views,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrCourseNameTaken
		}
		return fmt.Errorf("postgres: update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course document.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}
	return nil
}

// IncrementEnrolledStudents bumps the enrollment counter atomically.
func (r *CourseRepository) IncrementEnrolledStudents(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE courses SET enrolled_students = enrolled_students + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: increment enrollments: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}
	return nil
}

// UpdateViews rewrites the view log without touching the rest of the document.
func (r *CourseRepository) UpdateViews(ctx context.Context, id string, views []time.Time) error {
	data, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("postgres: marshal views: %w", err)
	}

	tag, err := r.conn.Exec(ctx, `UPDATE courses SET views = $2 WHERE id = $1`, id, data)
	if err != nil {
		return fmt.Errorf("postgres: update views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

func marshalCourseDocs(c *course.Course) (articles, views []byte, err error) {
	if articles, err = json.Marshal(c.Articles); err != nil {
		return nil, nil, fmt.Errorf("postgres: marshal articles: %w", err)
	}
	if views, err = json.Marshal(c.Views); err != nil {
		return nil, nil, fmt.Errorf("postgres: marshal views: %w", err)
	}
	return articles, views, nil
}

func scanCourse(row pgx.Row) (*course.Course, error) {
	var (
		c          course.Course
		courseType string
		difficulty string
		visibility string
		articles   []byte
		views      []byte
	)

	err := row.Scan(
		&c.ID, &c.Name, &courseType, &c.Description, &c.AuthorID, &articles,
		&c.IndexPhotoURL, &c.EnrolledStudents, &difficulty, &c.Price,
		&visibility, &c.Duration, &views, &c.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("postgres: scan course: %w", err)
	}

	c.Type = course.Type(courseType)
	c.Difficulty = course.Difficulty(difficulty)
	c.Visibility = course.Visibility(visibility)

	if err := json.Unmarshal(articles, &c.Articles); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal articles: %w", err)
	}
	if err := json.Unmarshal(views, &c.Views); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal views: %w", err)
	}

	return &c, nil
}

func scanCourses(rows pgx.Rows) ([]*course.Course, error) {
	courses := []*course.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
