package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/civicreport/internal/common"
	"github.com/dmitrijs2005/civicreport/internal/dbx"
	"github.com/dmitrijs2005/civicreport/internal/server/models"
	issuesrepo "github.com/dmitrijs2005/civicreport/internal/server/repositories/issues"
	usersrepo "github.com/dmitrijs2005/civicreport/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memUsers is an in-memory users.Repository with a unique email index.
type memUsers struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64

	getErr    error
	createErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*models.User{}}
}

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}

	r.nextID++
	cp := *u
	cp.ID = r.nextID
	cp.CreatedAt = time.Now()
	r.byID[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) byUserID(id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

// memIssues is an in-memory issues.Repository keeping insertion order.
type memIssues struct {
	mu     sync.Mutex
	items  []models.Issue
	users  *memUsers
	err    error
	nextID int64
}

func (r *memIssues) Create(ctx context.Context, issue *models.Issue) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	if r.users != nil {
		if _, err := r.users.byUserID(issue.ReportedBy); err != nil {
			return nil, err
		}
	}

	r.nextID++
	issue.ID = r.nextID
	issue.Status = models.IssueStatusOpen
	issue.CreatedAt = time.Now()
	r.items = append(r.items, *issue)
	return issue, nil
}

func (r *memIssues) List(ctx context.Context) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	return append([]models.Issue{}, r.items...), nil
}

func (r *memIssues) ListByReporter(ctx context.Context, userID int64) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Issue{}
	for _, it := range r.items {
		if it.ReportedBy == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memIssues) GetByID(ctx context.Context, id int64) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	users  *memUsers
	issues *memIssues
}

func newFakeRepoManager() *fakeRepoManager {
	u := newMemUsers()
	return &fakeRepoManager{users: u, issues: &memIssues{users: u}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.users }
func (m *fakeRepoManager) Issues(db dbx.DBTX) issuesrepo.Repository    { return m.issues }
