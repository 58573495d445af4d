package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memStore backs the fake repositories with maps. The err fields inject
// failures into the matching method.
type memStore struct {
	mu sync.Mutex

	users    map[int64]*models.User
	tasks    map[int64]*models.Task
	sessions map[string]*models.Session
	nextID   int64

	getByEmailErr error
	createUserErr error
	getByIDErr    error
	taskErr       error
	sessionErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*models.User{},
		tasks:    map[int64]*models.Task{},
		sessions: map[string]*models.Session{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return &fakeUsersRepo{m.s} }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository             { return &fakeTasksRepo{m.s} }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository       { return &fakeSessionsRepo{m.s} }

type fakeUsersRepo struct{ s *memStore }

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createUserErr != nil {
		return nil, f.s.createUserErr
	}
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	u.ID = f.s.id()
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getByEmailErr != nil {
		return nil, f.s.getByEmailErr
	}
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getByIDErr != nil {
		return nil, f.s.getByIDErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeTasksRepo struct{ s *memStore }

func (f *fakeTasksRepo) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.taskErr != nil {
		return nil, f.s.taskErr
	}
	out := []models.Task{}
	for _, t := range f.s.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.taskErr != nil {
		return nil, f.s.taskErr
	}
	t.ID = f.s.id()
	cp := *t
	f.s.tasks[t.ID] = &cp
	return t, nil
}

func (f *fakeTasksRepo) Get(ctx context.Context, id int64) (*models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.taskErr != nil {
		return nil, f.s.taskErr
	}
	t, ok := f.s.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, id int64, title, body string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.tasks[id]
	if !ok {
		return common.ErrorNotFound
	}
	t.Title, t.Body = title, body
	return nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.tasks, id)
	return nil
}

type fakeSessionsRepo struct{ s *memStore }

func (f *fakeSessionsRepo) Create(ctx context.Context, userID int64, validity time.Duration) (*models.Session, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.sessionErr != nil {
		return nil, f.s.sessionErr
	}
	now := time.Now()
	sess := &models.Session{ID: uuid.NewString(), UserID: userID, ExpiresAt: now.Add(validity), CreatedAt: now}
	cp := *sess
	f.s.sessions[sess.ID] = &cp
	return sess, nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, id string) (*models.Session, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.sessionErr != nil {
		return nil, f.s.sessionErr
	}
	sess, ok := f.s.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *sess
	return &cp, nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.sessionErr != nil {
		return f.s.sessionErr
	}
	delete(f.s.sessions, id)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.sessionErr != nil {
		return 0, f.s.sessionErr
	}
	var n int64
	for id, sess := range f.s.sessions {
		if sess.Expired(now) {
			delete(f.s.sessions, id)
			n++
		}
	}
	return n, nil
}
