package rest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/civicreport/internal/common"
	"github.com/dmitrijs2005/civicreport/internal/logging"
	"github.com/dmitrijs2005/civicreport/internal/server/auth"
	"github.com/dmitrijs2005/civicreport/internal/server/models"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// memStore backs both UserAuthenticator and IssueReporter in memory.
type memStore struct {
	mu     sync.Mutex
	tokens *auth.TokenIssuer
	users  []models.User
	pw     map[string]string
	issues []models.Issue

	err error
}

func newMemStore(tokens *auth.TokenIssuer) *memStore {
	return &memStore{tokens: tokens, pw: map[string]string{}}
}

func (m *memStore) Register(ctx context.Context, name, email, phone, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return nil, common.ErrDuplicateEmail
		}
	}
	u := models.User{ID: int64(len(m.users) + 1), Name: name, Email: email, Phone: phone, CreatedAt: time.Now()}
	m.users = append(m.users, u)
	m.pw[email] = password
	return &u, nil
}

func (m *memStore) Login(ctx context.Context, email, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	for _, u := range m.users {
		if u.Email == email && m.pw[email] == password {
			return m.tokens.Issue(u.ID)
		}
	}
	return "", common.ErrInvalidCredentials
}

func (m *memStore) Report(ctx context.Context, userID int64, issue *models.Issue) (*models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	issue.ID = int64(len(m.issues) + 1)
	issue.Status = models.IssueStatusOpen
	issue.ReportedBy = userID
	issue.CreatedAt = time.Now().UTC()
	m.issues = append(m.issues, *issue)
	return issue, nil
}

func (m *memStore) List(ctx context.Context) ([]models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Issue(nil), m.issues...), nil
}

func (m *memStore) ListByReporter(ctx context.Context, userID int64) ([]models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Issue
	for _, it := range m.issues {
		if it.ReportedBy == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) Get(ctx context.Context, id int64) (*models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.issues {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeUploader struct {
	filename    string
	contentType string
	size        int64
	body        []byte
	err         error
}

func (f *fakeUploader) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.filename = filename
	f.contentType = contentType
	f.size = size
	f.body, _ = io.ReadAll(body)
	return "https://bucket.s3.us-east-1.amazonaws.com/issues/x.jpg", nil
}
