package messages

import (
	"context"

	"github.com/fashionguide/chat-backend/internal/server/models"
)

// Repository is the thin chat history collaborator: save and recent-list
// only. History retrieval logic beyond this lives outside the identity
// subsystem.
type Repository interface {
	Save(ctx context.Context, message *models.Message) error
	ListRecent(ctx context.Context, limit int) ([]*models.Message, error)
}
