// Package repomanager vends repository implementations bound to a database
// handle (either *sql.DB or an open transaction) and exposes the schema
// migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/fashionguide/chat-backend/internal/dbx"
	"github.com/fashionguide/chat-backend/internal/server/repositories/messages"
	"github.com/fashionguide/chat-backend/internal/server/repositories/users"
	"github.com/fashionguide/chat-backend/internal/server/repositories/verificationcodes"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	VerificationCodes(db dbx.DBTX) verificationcodes.Repository
	Messages(db dbx.DBTX) messages.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
