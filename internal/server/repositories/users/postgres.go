package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/dbx"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, password_hash, display_name, google_id, is_active, is_verified, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, email, password_hash, display_name, google_id, is_verified)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.GoogleID, user.IsVerified)

	created, err := scanUser(row)
	if err != nil {
		if constraint := uniqueViolation(err); constraint != "" {
			if constraint == "users_google_id_idx" {
				return nil, common.ErrIdentityConflict
			}
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return r.getOne(ctx, query, googleID)
}

func (r *PostgresRepository) LinkGoogleID(ctx context.Context, userID, googleID string, displayName *string) error {
	query :=
		`UPDATE users
		 SET google_id = $2,
		     is_verified = true,
		     display_name = COALESCE(display_name, $3),
		     updated_at = now()
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, googleID, displayName)
	if err != nil {
		if uniqueViolation(err) != "" {
			return common.ErrIdentityConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, userID string) error {
	query := `UPDATE users SET is_verified = true, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var passwordHash, displayName, googleID sql.NullString
	err := row.Scan(&user.ID, &user.Email, &passwordHash, &displayName, &googleID,
		&user.IsActive, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	if displayName.Valid {
		user.DisplayName = &displayName.String
	}
	if googleID.Valid {
		user.GoogleID = &googleID.String
	}
	return user, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// uniqueViolation returns the violated constraint name for a Postgres
// unique_violation (23505), or "" for any other error.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}
