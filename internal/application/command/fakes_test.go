package command

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/eduhub/course-hub/internal/domain/activity"
	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError)
}

// ─────────────────────────────────────────────────────────────────────────────
// In-memory repositories
// ─────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return shared.ErrAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return shared.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateEnrollments(ctx context.Context, id string, fn func(u *user.User) error) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(u)
}

func (r *fakeUserRepo) UpdateLastAction(_ context.Context, id string, log activity.DateLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return shared.ErrUserNotFound
	}
	u.LastAction = log
	return nil
}

type fakeCourseRepo struct {
	mu         sync.Mutex
	courses    map[string]*course.Course
	increments map[string]int
}

func newFakeCourseRepo(courses ...*course.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[string]*course.Course{}, increments: map[string]int{}}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) Create(_ context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.courses {
		if existing.AuthorID == c.AuthorID && existing.Name == c.Name {
			return shared.ErrCourseNameTaken
		}
	}
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	return c, nil
}

func (r *fakeCourseRepo) GetByIDs(_ context.Context, ids []string, onlyPublic bool) ([]*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*course.Course
	for _, id := range ids {
		c, ok := r.courses[id]
		if !ok || (onlyPublic && !c.IsPublic()) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByAuthor(_ context.Context, authorID string, onlyPublic bool) ([]*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*course.Course
	for _, c := range r.courses {
		if c.AuthorID != authorID || (onlyPublic && !c.IsPublic()) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCourseRepo) ExistsByNameAndAuthor(_ context.Context, name, authorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.AuthorID == authorID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[c.ID]; !ok {
		return shared.ErrCourseNotFound
	}
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) IncrementEnrolledStudents(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return shared.ErrCourseNotFound
	}
	c.EnrolledStudents++
	r.increments[id]++
	return nil
}

func (r *fakeCourseRepo) UpdateViews(_ context.Context, id string, views []time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return shared.ErrCourseNotFound
	}
	c.Views = views
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Notifier spy
// ─────────────────────────────────────────────────────────────────────────────

// fakeNotifier records every call and signals through done so tests can wait
// for the fire-and-forget goroutines.
type fakeNotifier struct {
	mu            sync.Mutex
	enrollments   []string // course IDs
	published     []string
	roleDecisions []bool
	deleted       []string
	done          chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 8)}
}

func (n *fakeNotifier) NotifyEnrollment(_ context.Context, _ *user.User, c *course.Course) error {
	n.mu.Lock()
	n.enrollments = append(n.enrollments, c.ID)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *fakeNotifier) NotifyCoursePublished(_ context.Context, c *course.Course) error {
	n.mu.Lock()
	n.published = append(n.published, c.ID)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *fakeNotifier) NotifyRoleDecision(_ context.Context, _ *user.User, accepted bool) error {
	n.mu.Lock()
	n.roleDecisions = append(n.roleDecisions, accepted)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *fakeNotifier) NotifyUserDeleted(_ context.Context, u *user.User) error {
	n.mu.Lock()
	n.deleted = append(n.deleted, u.ID)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

// wait blocks until one notification arrived or the timeout expires.
func (n *fakeNotifier) wait(timeout time.Duration) bool {
	select {
	case <-n.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
