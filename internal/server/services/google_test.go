package services

import (
	"context"
	"testing"
	"time"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/server/auth"
	"github.com/fashionguide/chat-backend/internal/server/google"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	identity *google.Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, rawToken string) (*google.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newGoogleEnv(t *testing.T, v google.TokenVerifier) (*GoogleService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	db, mock := newMockDB(t)
	env.mock = mock
	tokens := auth.NewTokenManager([]byte("test-secret"), 30*time.Minute)
	svc := NewGoogleService(db, env.rm, v, tokens, discardLogger())
	return svc, env
}

func TestGoogleLogin_NewEmailCreatesVerifiedUser(t *testing.T) {
	svc, env := newGoogleEnv(t, &fakeVerifier{identity: &google.Identity{
		Subject: "g-sub-1", Email: "New@X.com", Name: "Nora",
	}})
	ctx := context.Background()

	expectTx(env.mock)
	token, user, err := svc.Login(ctx, "raw")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "new@x.com", user.Email)
	assert.True(t, user.IsVerified)
	assert.False(t, user.HasPassword())
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-sub-1", *user.GoogleID)
	require.NotNil(t, user.DisplayName)
	assert.Equal(t, "Nora", *user.DisplayName)
}

func TestGoogleLogin_LinksExistingLocalAccount(t *testing.T) {
	svc, env := newGoogleEnv(t, &fakeVerifier{identity: &google.Identity{
		Subject: "g-sub-2", Email: "a@x.com", Name: "Alice",
	}})
	ctx := context.Background()

	local := registerUnverified(t, env, "a@x.com")
	originalHash := *local.PasswordHash

	expectTx(env.mock)
	_, user, err := svc.Login(ctx, "raw")
	require.NoError(t, err)

	assert.Equal(t, local.ID, user.ID, "must link, not create a second account")
	assert.True(t, user.IsVerified, "linking attests the email")
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-sub-2", *user.GoogleID)
	require.NotNil(t, user.PasswordHash)
	assert.Equal(t, originalHash, *user.PasswordHash, "linking must not overwrite the local credential")
}

func TestGoogleLogin_RepeatLoginFindsLinkedAccount(t *testing.T) {
	svc, env := newGoogleEnv(t, &fakeVerifier{identity: &google.Identity{
		Subject: "g-sub-3", Email: "b@x.com",
	}})
	ctx := context.Background()

	expectTx(env.mock)
	_, first, err := svc.Login(ctx, "raw")
	require.NoError(t, err)

	expectTx(env.mock)
	_, second, err := svc.Login(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGoogleLogin_ConflictingFederatedID(t *testing.T) {
	svc, env := newGoogleEnv(t, &fakeVerifier{identity: &google.Identity{
		Subject: "g-sub-other", Email: "c@x.com",
	}})
	ctx := context.Background()

	// The email is already bound to a different google id.
	gid := "g-sub-original"
	_, err := env.rm.users.Create(ctx, &models.User{Email: "c@x.com", GoogleID: &gid, IsVerified: true})
	require.NoError(t, err)

	expectFailedTx(env.mock)
	_, _, err = svc.Login(ctx, "raw")
	require.ErrorIs(t, err, common.ErrIdentityConflict)
}

func TestGoogleLogin_InvalidProviderToken(t *testing.T) {
	svc, _ := newGoogleEnv(t, &fakeVerifier{err: common.ErrInvalidFederatedToken})

	_, _, err := svc.Login(context.Background(), "garbage")
	require.ErrorIs(t, err, common.ErrInvalidFederatedToken)
}

func TestGoogleLogin_TokenResolvesToUser(t *testing.T) {
	svc, env := newGoogleEnv(t, &fakeVerifier{identity: &google.Identity{
		Subject: "g-sub-4", Email: "d@x.com",
	}})
	ctx := context.Background()

	expectTx(env.mock)
	token, user, err := svc.Login(ctx, "raw")
	require.NoError(t, err)

	claims, err := svc.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}
