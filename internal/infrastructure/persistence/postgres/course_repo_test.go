package postgres

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
)

// staticRow feeds canned column values through scanCourse.
type staticRow struct {
	vals []any
}

func (r staticRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case *int:
			*p = r.vals[i].(int)
		case *float64:
			*p = r.vals[i].(float64)
		case *[]byte:
			*p = r.vals[i].([]byte)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		}
	}
	return nil
}

func courseRow(visibility string) staticRow {
	return staticRow{vals: []any{
		"c1",                              // id
		"Go Basics",                       // name
		string(course.TypeITSoftware),     // type
		"",                                // description
		"t1",                              // author_id
		[]byte(`[]`),                      // articles
		"",                                // index_photo_url
		0,                                 // enrolled_students
		string(course.DifficultyBeginner), // difficulty
		49.99,                             // price
		visibility,                        // visibility
		0,                                 // duration
		[]byte(`[]`),                      // views
		time.Now().UTC(),                  // created_at
	}}
}

// The visibility column stores the domain's title-case state values. A row
// created with the migration default must scan into a state the domain
// recognizes, otherwise IsPublic and ChangeVisibility misbehave on every
// freshly defaulted row.
func TestMigrationDefaultVisibilityRoundTripsThroughDomain(t *testing.T) {
	defaultRe := regexp.MustCompile(`visibility\s+TEXT NOT NULL DEFAULT '([^']+)'`)
	m := defaultRe.FindStringSubmatch(migration002Up)
	require.NotNil(t, m, "courses migration must declare a visibility default")
	require.Equal(t, string(course.VisibilityPrivate), m[1])

	c, err := scanCourse(courseRow(m[1]))
	require.NoError(t, err)

	_, err = course.ParseVisibility(string(c.Visibility))
	require.NoError(t, err)
	require.False(t, c.IsPublic())

	// A defaulted row is already private, so this transition must be refused.
	_, err = c.ChangeVisibility(course.VisibilityPrivate)
	require.ErrorIs(t, err, shared.ErrSameVisibilityState)
}

func TestScanCoursePublicVisibility(t *testing.T) {
	c, err := scanCourse(courseRow(string(course.VisibilityPublic)))
	require.NoError(t, err)
	require.True(t, c.IsPublic())
}
