package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/dbx"
	"github.com/fashionguide/chat-backend/internal/logging"
	"github.com/fashionguide/chat-backend/internal/server/auth"
	"github.com/fashionguide/chat-backend/internal/server/google"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/fashionguide/chat-backend/internal/server/repositories/repomanager"
)

// GoogleService is the federation adapter: it verifies a provider assertion,
// creates or links the matching account, and mints a session token.
// Federated accounts are always treated as verified since the provider has
// already attested the email.
type GoogleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    google.TokenVerifier
	tokens      *auth.TokenManager
	logger      logging.Logger
}

func NewGoogleService(db *sql.DB, m repomanager.RepositoryManager, v google.TokenVerifier, tokens *auth.TokenManager, l logging.Logger) *GoogleService {
	return &GoogleService{
		db:          db,
		repomanager: m,
		verifier:    v,
		tokens:      tokens,
		logger:      l.With("module", "google_service"),
	}
}

// Login handles a raw Google ID token end to end. A first-seen email gets a
// fresh verified account with no password; an existing email without a
// federated id gets the id linked (password hash untouched, account marked
// verified); an email already bound to a different federated id fails with
// ErrIdentityConflict.
func (s *GoogleService) Login(ctx context.Context, rawToken string) (string, *models.User, error) {
	ident, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", nil, common.ErrInvalidFederatedToken
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		existing, err := repo.GetByGoogleID(ctx, ident.Subject)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		email := common.NormalizeEmail(ident.Email)
		byEmail, err := repo.GetByEmail(ctx, email)
		if err == nil {
			if byEmail.GoogleID != nil && *byEmail.GoogleID != ident.Subject {
				return common.ErrIdentityConflict
			}
			var name *string
			if ident.Name != "" {
				name = &ident.Name
			}
			if err := repo.LinkGoogleID(ctx, byEmail.ID, ident.Subject, name); err != nil {
				return err
			}
			user, err = repo.GetByID(ctx, byEmail.ID)
			return err
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		created := &models.User{
			Email:      email,
			GoogleID:   &ident.Subject,
			IsVerified: true,
		}
		if ident.Name != "" {
			created.DisplayName = &ident.Name
		}
		user, err = repo.Create(ctx, created)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrIdentityConflict) {
			return "", nil, err
		}
		s.logger.Error(ctx, "google login failed", "error", err.Error())
		return "", nil, common.ErrorInternal
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, user, nil
}
