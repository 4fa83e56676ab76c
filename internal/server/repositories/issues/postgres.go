package issues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/civicreport/internal/common"
	"github.com/dmitrijs2005/civicreport/internal/dbx"
	"github.com/dmitrijs2005/civicreport/internal/server/models"
)

const selectColumns = `id, title, description, category, image_url, status, latitude, longitude, address, reported_by, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts issue and fills ID, Status and CreatedAt from the row
// defaults. A ReportedBy without a matching user fails the foreign key and is
// reported as common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, issue *models.Issue) (*models.Issue, error) {

	query :=
		`INSERT INTO issues (title, description, category, image_url, latitude, longitude, address, reported_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, status, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		issue.Title, issue.Description, issue.Category, issue.ImageURL,
		issue.Latitude, issue.Longitude, issue.Address, issue.ReportedBy,
	).Scan(&issue.ID, &issue.Status, &issue.CreatedAt)

	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("reporter %d: %w", issue.ReportedBy, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return issue, nil
}

// List returns every issue in storage order. There is no paging.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Issue, error) {
	query := `SELECT ` + selectColumns + ` FROM issues`

	return r.query(ctx, query)
}

func (r *PostgresRepository) ListByReporter(ctx context.Context, userID int64) ([]models.Issue, error) {
	query := `SELECT ` + selectColumns + ` FROM issues WHERE reported_by = $1`

	return r.query(ctx, query, userID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Issue, error) {
	query := `SELECT ` + selectColumns + ` FROM issues WHERE id = $1`

	issue := &models.Issue{}
	err := scanIssue(r.db.QueryRowContext(ctx, query, id), issue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return issue, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Issue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Issue, 0)
	for rows.Next() {
		var issue models.Issue
		if err := scanIssue(rows, &issue); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIssue(s scanner, issue *models.Issue) error {
	var imageURL sql.NullString

	err := s.Scan(&issue.ID, &issue.Title, &issue.Description, &issue.Category, &imageURL,
		&issue.Status, &issue.Latitude, &issue.Longitude, &issue.Address, &issue.ReportedBy, &issue.CreatedAt)
	if err != nil {
		return err
	}

	if imageURL.Valid {
		issue.ImageURL = &imageURL.String
	}

	if !issue.Status.Valid() {
		return fmt.Errorf("unknown issue status %q", issue.Status)
	}

	return nil
}
