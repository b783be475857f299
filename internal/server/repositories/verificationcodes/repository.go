package verificationcodes

import (
	"context"
	"time"

	"github.com/fashionguide/chat-backend/internal/server/models"
)

// Repository stores verification codes. Old rows are never deleted; a newer
// code supersedes older ones because consumption only ever considers the
// latest active row.
type Repository interface {
	Create(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error)
	// GetLatestActive returns the newest unused, unexpired code for the user.
	// When bound to a transaction the row is locked, so two concurrent
	// consumption attempts cannot both succeed.
	GetLatestActive(ctx context.Context, userID string, now time.Time) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id string) error
}
