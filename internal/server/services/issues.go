package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/civicreport/internal/server/models"
	"github.com/dmitrijs2005/civicreport/internal/server/repositories/repomanager"
)

// IssueService records issue reports and serves them back.
type IssueService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIssueService(db *sql.DB, m repomanager.RepositoryManager) *IssueService {
	return &IssueService{db: db, repomanager: m}
}

// Report stores issue as owned by userID. Any ID, Status, ReportedBy or
// CreatedAt already set on issue is ignored; the database assigns them and
// every new issue starts Open.
func (s *IssueService) Report(ctx context.Context, userID int64, issue *models.Issue) (*models.Issue, error) {
	issue.ID = 0
	issue.Status = ""
	issue.ReportedBy = userID

	created, err := s.repomanager.Issues(s.db).Create(ctx, issue)
	if err != nil {
		return nil, fmt.Errorf("error creating issue: %w", err)
	}

	return created, nil
}

func (s *IssueService) List(ctx context.Context) ([]models.Issue, error) {
	return s.repomanager.Issues(s.db).List(ctx)
}

func (s *IssueService) ListByReporter(ctx context.Context, userID int64) ([]models.Issue, error) {
	return s.repomanager.Issues(s.db).ListByReporter(ctx, userID)
}

func (s *IssueService) Get(ctx context.Context, id int64) (*models.Issue, error) {
	return s.repomanager.Issues(s.db).GetByID(ctx, id)
}
