// Package services contains the server-side business logic of the identity
// subsystem: local accounts, verification codes, and Google federation.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/logging"
	"github.com/fashionguide/chat-backend/internal/server/auth"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/fashionguide/chat-backend/internal/server/repositories/repomanager"

	"database/sql"
)

// UserService handles local registration, credential verification, and
// session token issuance.
type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	tokens       *auth.TokenManager
	verification *VerificationService
	logger       logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager, verification *VerificationService, l logging.Logger) *UserService {
	return &UserService{
		db:           db,
		repomanager:  m,
		tokens:       tokens,
		verification: verification,
		logger:       l.With("module", "user_service"),
	}
}

// Register creates an unverified local account and issues its first
// verification code. A failure to issue or deliver the code does not undo
// the registration; the user can always request a resend.
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = common.NormalizeEmail(email)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: &hash}
	if displayName != "" {
		user.DisplayName = &displayName
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if _, err := s.verification.Issue(ctx, created.ID); err != nil {
		s.logger.Error(ctx, "issuing initial verification code failed", "user_id", created.ID, "error", err.Error())
	}

	return created, nil
}

// Login verifies credentials and mints a session token. Unknown emails,
// wrong passwords, OAuth-only accounts, and deactivated accounts all
// collapse into ErrInvalidCredentials; only an unverified account with
// correct credentials is distinguished, per the product's error catalog.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = common.NormalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if !user.HasPassword() || !auth.CheckPassword(password, *user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, common.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return "", nil, common.ErrNotVerified
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, user, nil
}

// GetByID resolves the current user for a validated session token.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
