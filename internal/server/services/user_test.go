package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/dbx"
	"github.com/dmitrijs2005/bikebed/internal/logging"
	"github.com/dmitrijs2005/bikebed/internal/server/auth"
	"github.com/dmitrijs2005/bikebed/internal/server/config"
	"github.com/dmitrijs2005/bikebed/internal/server/models"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		ResetTokenValidityDuration:   time.Hour,
	}
}

func newUserService(t *testing.T) (*UserService, *repomanager.MemoryRepositoryManager) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	return NewUserService(rm, testConfig(), logging.Discard()), rm
}

func TestSignUp(t *testing.T) {
	s, rm := newUserService(t)
	ctx := context.Background()

	user, pair, err := s.SignUp(ctx, "  Alex@BikeBed.app ", "secret1", map[string]any{"name": "Alex"})
	require.NoError(t, err)
	assert.Equal(t, "alex@bikebed.app", user.Email)
	assert.Equal(t, common.RoleGuestUser, user.Metadata["role"])
	assert.Equal(t, "Alex", user.Metadata["name"])

	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)

	_, err = rm.RefreshTokens(nil).Find(ctx, pair.RefreshToken)
	require.NoError(t, err)

	_, _, err = s.SignUp(ctx, "alex@bikebed.app", "another1", nil)
	require.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestSignUp_Validation(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		md       map[string]any
	}{
		{"bad email", "nope", "secret1", nil},
		{"short password", "a@b.co", "123", nil},
		{"bad role", "a@b.co", "secret1", map[string]any{"role": "admin"}},
		{"bad phone", "a@b.co", "secret1", map[string]any{"phone": "call me"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.SignUp(ctx, tt.email, tt.password, tt.md)
			require.ErrorIs(t, err, common.ErrInvalidArgument)
		})
	}
}

func TestSignIn(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	created, _, err := s.SignUp(ctx, "host@bikebed.app", "host123", map[string]any{"role": common.RoleHost})
	require.NoError(t, err)

	user, pair, err := s.SignIn(ctx, "HOST@bikebed.app", "host123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, pair.RefreshToken)

	_, _, err = s.SignIn(ctx, "host@bikebed.app", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, _, err = s.SignIn(ctx, "ghost@bikebed.app", "host123")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, _, err = s.SignIn(ctx, "", "")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestRefreshToken_Rotates(t *testing.T) {
	s, rm := newUserService(t)
	ctx := context.Background()

	_, pair, err := s.SignUp(ctx, "a@b.co", "secret1", nil)
	require.NoError(t, err)

	next, err := s.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// single use
	_, err = s.RefreshToken(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	require.NoError(t, rm.RefreshTokens(nil).Create(ctx, "u1", "stale", -time.Minute))
	_, err = s.RefreshToken(ctx, "stale")
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
	_, err = rm.RefreshTokens(nil).Find(ctx, "stale")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSignOut(t *testing.T) {
	s, rm := newUserService(t)
	ctx := context.Background()

	_, pair, err := s.SignUp(ctx, "a@b.co", "secret1", nil)
	require.NoError(t, err)

	require.NoError(t, s.SignOut(ctx, pair.RefreshToken))
	_, err = rm.RefreshTokens(nil).Find(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.SignOut(ctx, ""))
}

func TestResetPassword(t *testing.T) {
	s, rm := newUserService(t)
	ctx := context.Background()

	user, _, err := s.SignUp(ctx, "a@b.co", "secret1", nil)
	require.NoError(t, err)

	token, err := s.ResetPassword(ctx, "A@B.co")
	require.NoError(t, err)
	reset, err := rm.Resets(nil).Find(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, reset.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), reset.Expires, time.Minute)

	_, err = s.ResetPassword(ctx, "ghost@b.co")
	require.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = s.ResetPassword(ctx, "not-an-email")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestResetPassword_TokenFailure(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()
	_, _, err := s.SignUp(ctx, "a@b.co", "secret1", nil)
	require.NoError(t, err)

	orig := randomToken
	t.Cleanup(func() { randomToken = orig })
	randomToken = func() (string, error) { return "", errors.New("entropy") }

	_, err = s.ResetPassword(ctx, "a@b.co")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	user, _, err := s.SignUp(ctx, "a@b.co", "secret1", map[string]any{"name": "Alex", "bio": "hi"})
	require.NoError(t, err)

	updated, err := s.UpdateProfile(ctx, user.ID, map[string]any{"phone": "+34 600 111 222", "bio": "rider"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "Alex",
		"bio":   "rider",
		"phone": "+34 600 111 222",
		"role":  common.RoleGuestUser,
	}, updated.Metadata)

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Metadata, got.Metadata)

	_, err = s.UpdateProfile(ctx, user.ID, map[string]any{"role": "admin"})
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = s.UpdateProfile(ctx, "missing", map[string]any{"bio": "x"})
	require.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = s.GetUser(ctx, "missing")
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

// failingUsers makes every lookup fail with a storage error.
type failingUsers struct{ users.Repository }

func (failingUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}

type failingManager struct {
	*repomanager.MemoryRepositoryManager
}

func (failingManager) Users(dbx.DBTX) users.Repository { return failingUsers{} }

func TestSignIn_StorageError(t *testing.T) {
	s := NewUserService(failingManager{repomanager.NewMemoryRepositoryManager()}, testConfig(), logging.Discard())

	_, _, err := s.SignIn(context.Background(), "a@b.co", "secret1")
	require.ErrorIs(t, err, common.ErrorInternal)
	require.NotErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.ResetPassword(context.Background(), "a@b.co")
	require.ErrorIs(t, err, common.ErrorInternal)
}
