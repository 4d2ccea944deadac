// Package services contains the business logic of the auth backend.
// UserService handles accounts: sign-up, sign-in, token rotation, password
// resets and profile updates.
package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/cryptox"
	"github.com/dmitrijs2005/bikebed/internal/dbx"
	"github.com/dmitrijs2005/bikebed/internal/logging"
	"github.com/dmitrijs2005/bikebed/internal/server/auth"
	"github.com/dmitrijs2005/bikebed/internal/server/config"
	"github.com/dmitrijs2005/bikebed/internal/server/models"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bikebed/internal/validate"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Seams for tests.
var (
	newSalt      = cryptox.NewSalt
	hashPassword = cryptox.HashPassword
	randomToken  = func() (string, error) { return common.MakeRandHexString(32) }
)

// dummySalt and dummyHash let SignIn spend the same time on unknown e-mails.
var (
	dummySalt = make([]byte, cryptox.SaltSize)
	dummyHash = make([]byte, cryptox.KeySize)
)

type UserService struct {
	repomanager                  repomanager.RepositoryManager
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		repomanager:                  m,
		log:                          log.With("module", "user_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidArgument(err error) error {
	return fmt.Errorf("%w: %w", common.ErrInvalidArgument, err)
}

// SignUp creates an account and signs it in. A missing role defaults to
// guest-user.
func (s *UserService) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.User, *TokenPair, error) {
	email = normalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return nil, nil, invalidArgument(err)
	}
	if err := validate.Password(password); err != nil {
		return nil, nil, invalidArgument(err)
	}

	md := maps.Clone(metadata)
	if md == nil {
		md = map[string]any{}
	}
	if err := checkMetadata(md); err != nil {
		return nil, nil, err
	}
	if _, ok := md[common.RoleMetadataKey]; !ok {
		md[common.RoleMetadataKey] = common.RoleGuestUser
	}

	salt := newSalt()
	user := &models.User{
		Email:        email,
		PasswordHash: hashPassword([]byte(password), salt),
		Salt:         salt,
		Metadata:     md,
	}

	var pair *TokenPair
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		pair, err = s.generateTokenPair(ctx, user.ID, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, pair, nil
}

// SignIn verifies the password and returns a fresh TokenPair. Unknown
// e-mails and wrong passwords both yield common.ErrInvalidCredentials.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = normalizeEmail(email)
	if err := validate.Credentials(email, password); err != nil {
		return nil, nil, invalidArgument(err)
	}

	user, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword([]byte(password), dummySalt, dummyHash)
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, nil, common.ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.repomanager.DB())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// SignOut revokes refreshToken. Unknown or empty tokens are not an error.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.repomanager.DB()).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// RefreshToken validates a refresh token, rotates it transactionally and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.repomanager.DB())

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// ResetPassword issues a reset token valid for the configured duration and
// returns it. Unknown e-mails yield common.ErrUserNotFound.
func (s *UserService) ResetPassword(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return "", invalidArgument(err)
	}

	user, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	token, err := randomToken()
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := s.repomanager.Resets(s.repomanager.DB()).Create(ctx, user.ID, token, s.resetTokenValidityDuration); err != nil {
		return "", fmt.Errorf("error creating reset token: %w", err)
	}

	s.log.Info(ctx, "password reset issued", "user_id", user.ID)
	return token, nil
}

// UpdateProfile shallow-merges patch into the stored metadata bag and
// returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*models.User, error) {
	if err := checkMetadata(patch); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.Metadata == nil {
			u.Metadata = map[string]any{}
		}
		maps.Copy(u.Metadata, patch)
		if err := repo.UpdateMetadata(ctx, u.ID, u.Metadata); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}

// GetUser returns the account with id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.repomanager.DB()).GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUserNotFound
	}
	return user, err
}

// checkMetadata validates the well-known profile keys present in md.
func checkMetadata(md map[string]any) error {
	if v, ok := md[common.RoleMetadataKey]; ok {
		role, _ := v.(string)
		if err := validate.Role(role); err != nil {
			return invalidArgument(err)
		}
	}
	if v, ok := md["phone"]; ok {
		phone, _ := v.(string)
		if err := validate.Phone(phone); err != nil {
			return invalidArgument(err)
		}
	}
	return nil
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
