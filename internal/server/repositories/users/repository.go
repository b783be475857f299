package users

import (
	"context"

	"github.com/fashionguide/chat-backend/internal/server/models"
)

// Repository is the identity store. Emails passed in are expected to be
// normalized by the caller; lookups are case-insensitive regardless.
type Repository interface {
	// Create inserts a new user and returns it with the generated id and
	// timestamps. A taken email yields common.ErrDuplicateEmail, a taken
	// google id common.ErrIdentityConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	// LinkGoogleID attaches a federated id to an existing account, marks it
	// verified, and fills a missing display name. It never touches the
	// password hash.
	LinkGoogleID(ctx context.Context, userID, googleID string, displayName *string) error
	MarkVerified(ctx context.Context, userID string) error
}
