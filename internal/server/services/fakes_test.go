package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/dbx"
	"github.com/fashionguide/chat-backend/internal/logging"
	"github.com/fashionguide/chat-backend/internal/server/models"
	messagesrepo "github.com/fashionguide/chat-backend/internal/server/repositories/messages"
	usersrepo "github.com/fashionguide/chat-backend/internal/server/repositories/users"
	codesrepo "github.com/fashionguide/chat-backend/internal/server/repositories/verificationcodes"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// --- in-memory repositories, shared by the service tests ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	order int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == common.NormalizeEmail(user.Email) {
			return nil, common.ErrDuplicateEmail
		}
		if user.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *user.GoogleID {
			return nil, common.ErrIdentityConflict
		}
	}
	clone := *user
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	clone.Email = common.NormalizeEmail(clone.Email)
	clone.IsActive = true
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	f.byID[clone.ID] = &clone
	return &clone, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == common.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) LinkGoogleID(ctx context.Context, userID, googleID string, displayName *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	for _, other := range f.byID {
		if other.ID != userID && other.GoogleID != nil && *other.GoogleID == googleID {
			return common.ErrIdentityConflict
		}
	}
	u.GoogleID = &googleID
	u.IsVerified = true
	if u.DisplayName == nil && displayName != nil {
		u.DisplayName = displayName
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUsersRepo) MarkVerified(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now()
	return nil
}

type fakeCodesRepo struct {
	mu    sync.Mutex
	codes []*models.VerificationCode
	seq   int
}

func newFakeCodesRepo() *fakeCodesRepo { return &fakeCodesRepo{} }

func (f *fakeCodesRepo) Create(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *code
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	f.seq++
	clone.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	f.codes = append(f.codes, &clone)
	return &clone, nil
}

func (f *fakeCodesRepo) GetLatestActive(ctx context.Context, userID string, now time.Time) (*models.VerificationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var newest *models.VerificationCode
	for _, c := range f.codes {
		if c.UserID != userID || c.IsUsed || c.Expired(now) {
			continue
		}
		if newest == nil || c.CreatedAt.After(newest.CreatedAt) {
			newest = c
		}
	}
	if newest == nil {
		return nil, common.ErrorNotFound
	}
	return newest, nil
}

func (f *fakeCodesRepo) MarkUsed(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.ID == id {
			if c.IsUsed {
				return common.ErrorNotFound
			}
			c.IsUsed = true
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeMessagesRepo struct {
	mu    sync.Mutex
	saved []*models.Message
}

func (f *fakeMessagesRepo) Save(ctx context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *m
	f.saved = append(f.saved, &clone)
	return nil
}

func (f *fakeMessagesRepo) ListRecent(ctx context.Context, limit int) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.saved) {
		limit = len(f.saved)
	}
	out := make([]*models.Message, 0, limit)
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.saved[i])
	}
	return out, nil
}

// fakeRepoManager vends the same in-memory repositories regardless of the
// handle, so transactional and plain paths see one store.
type fakeRepoManager struct {
	users *fakeUsersRepo
	codes *fakeCodesRepo
	msgs  *fakeMessagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: newFakeUsersRepo(),
		codes: newFakeCodesRepo(),
		msgs:  &fakeMessagesRepo{},
	}
}

func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return f.users }
func (f *fakeRepoManager) VerificationCodes(db dbx.DBTX) codesrepo.Repository {
	return f.codes
}
func (f *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository { return f.msgs }
func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string // "email:code"
	fail error
}

func (f *fakeNotifier) Send(ctx context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, email+":"+code)
	return nil
}

func (f *fakeNotifier) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "no verification email sent")
	last := f.sent[len(f.sent)-1]
	return last[len(last)-codeLength:]
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- sqlmock helpers ---

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// expectTx arms the mock for one committed transaction. The in-memory
// repositories ignore the handle, so no statements are expected inside.
func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

// expectFailedTx arms the mock for one rolled-back transaction.
func expectFailedTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}
