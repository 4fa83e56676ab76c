// Package services contains server-side business logic. This file implements
// UserService: registration, credential verification and access token issue.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/civicreport/internal/common"
	"github.com/dmitrijs2005/civicreport/internal/dbx"
	"github.com/dmitrijs2005/civicreport/internal/server/auth"
	"github.com/dmitrijs2005/civicreport/internal/server/config"
	"github.com/dmitrijs2005/civicreport/internal/server/models"
	"github.com/dmitrijs2005/civicreport/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService is the credential store plus token issue.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenIssuer
	hasher      *auth.PasswordHasher
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenIssuer, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      auth.NewPasswordHasher(cfg.BcryptCost),
	}
}

// Register stores a new user with a bcrypt hash of password. The email
// lookup and the insert share one transaction and the schema carries a
// unique constraint, so two racing registrations of one email cannot both
// succeed; the loser gets common.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, name, email, phone, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("password: %w", common.ErrorValidation)
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrDuplicateEmail
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error searching user: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{
			Name:         name,
			Email:        email,
			Phone:        phone,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, common.ErrDuplicateEmail) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Verify checks email and password and returns the user id. Unknown email
// and wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) Verify(ctx context.Context, email, password string) (int64, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrInvalidCredentials
		}
		return 0, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Matches(user.PasswordHash, password)
	if err != nil {
		return 0, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return 0, common.ErrInvalidCredentials
	}

	return user.ID, nil
}

// Login verifies the credentials and returns a signed access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	userID, err := s.Verify(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}

	return token, nil
}
