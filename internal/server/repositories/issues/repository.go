package issues

import (
	"context"

	"github.com/dmitrijs2005/civicreport/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, issue *models.Issue) (*models.Issue, error)
	List(ctx context.Context) ([]models.Issue, error)
	ListByReporter(ctx context.Context, userID int64) ([]models.Issue, error)
	GetByID(ctx context.Context, id int64) (*models.Issue, error)
}
