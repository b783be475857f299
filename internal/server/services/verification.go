package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/dbx"
	"github.com/fashionguide/chat-backend/internal/logging"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/fashionguide/chat-backend/internal/server/notifier"
	"github.com/fashionguide/chat-backend/internal/server/repositories/repomanager"
)

const codeLength = 6

// VerificationService issues and consumes time-boxed single-use email
// verification codes. Issuing a new code supersedes earlier ones: only the
// newest unused, unexpired code is ever honored on consumption.
type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    notifier.Notifier
	validity    time.Duration
	logger      logging.Logger
}

func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, n notifier.Notifier, validity time.Duration, l logging.Logger) *VerificationService {
	return &VerificationService{
		db:          db,
		repomanager: m,
		notifier:    n,
		validity:    validity,
		logger:      l.With("module", "verification_service"),
	}
}

// Issue generates a fresh code for the user, persists it, and hands the
// plaintext to the notifier. An already-verified user yields
// ErrAlreadyVerified. Notifier failure is reported in logs only: the stored
// code stays valid so a resend can follow.
func (s *VerificationService) Issue(ctx context.Context, userID string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return "", common.ErrorInternal
	}
	if user.IsVerified {
		return "", common.ErrAlreadyVerified
	}

	value, err := common.MakeRandDigits(codeLength)
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}

	code := &models.VerificationCode{
		UserID:    userID,
		Code:      value,
		ExpiresAt: time.Now().Add(s.validity),
	}
	if _, err := s.repomanager.VerificationCodes(s.db).Create(ctx, code); err != nil {
		return "", fmt.Errorf("storing code: %w", err)
	}

	if err := s.notifier.Send(ctx, user.Email, value); err != nil {
		s.logger.Error(ctx, "verification code delivery failed", "user_id", userID, "error", err.Error())
	}

	return value, nil
}

// Resend issues a new code for the account behind the email. An unknown
// email is a silent no-op so the endpoint cannot be used to probe which
// addresses are registered.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "resend requested for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	_, err = s.Issue(ctx, user.ID)
	return err
}

// Consume validates the supplied code against the newest active code for the
// user and, on match, atomically marks it used and the user verified. Wrong
// value, expiry, prior use, and an already-verified user are
// indistinguishable to the caller. The row
// lock taken inside the transaction keeps two concurrent attempts from both
// succeeding with the same code.
func (s *VerificationService) Consume(ctx context.Context, userID, code string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidOrExpiredCode
			}
			return err
		}
		// Verification obsoletes every outstanding code, including ones
		// that have not yet expired.
		if user.IsVerified {
			return common.ErrInvalidOrExpiredCode
		}

		repo := s.repomanager.VerificationCodes(tx)

		current, err := repo.GetLatestActive(ctx, userID, time.Now())
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidOrExpiredCode
			}
			return err
		}

		if subtle.ConstantTimeCompare([]byte(current.Code), []byte(code)) != 1 {
			return common.ErrInvalidOrExpiredCode
		}

		if err := repo.MarkUsed(ctx, current.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidOrExpiredCode
			}
			return err
		}

		return s.repomanager.Users(tx).MarkVerified(ctx, userID)
	})
}
