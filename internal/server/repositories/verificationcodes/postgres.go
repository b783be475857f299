package verificationcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/dbx"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error) {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO verification_codes (id, user_id, code, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, code, expires_at, is_used, created_at`

	row := r.db.QueryRowContext(ctx, query, code.ID, code.UserID, code.Code, code.ExpiresAt)

	created := &models.VerificationCode{}
	err := row.Scan(&created.ID, &created.UserID, &created.Code,
		&created.ExpiresAt, &created.IsUsed, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetLatestActive(ctx context.Context, userID string, now time.Time) (*models.VerificationCode, error) {
	query :=
		`SELECT id, user_id, code, expires_at, is_used, created_at
		 FROM verification_codes
		 WHERE user_id = $1 AND is_used = false AND expires_at > $2
		 ORDER BY created_at DESC
		 LIMIT 1
		 FOR UPDATE`

	code := &models.VerificationCode{}
	err := r.db.QueryRowContext(ctx, query, userID, now).Scan(&code.ID, &code.UserID,
		&code.Code, &code.ExpiresAt, &code.IsUsed, &code.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return code, nil
}

func (r *PostgresRepository) MarkUsed(ctx context.Context, id string) error {
	query := `UPDATE verification_codes SET is_used = true WHERE id = $1 AND is_used = false`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
