package client

import (
	"context"

	"github.com/dmitrijs2005/bikebed/internal/client/models"
)

// Client is the auth gateway the session state delegates to.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string, profile map[string]any) (*models.Session, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	Ping(ctx context.Context) error
	Close() error
}

// ProfileUpdater is implemented by gateways that store profiles remotely.
// metadata is the complete, already merged bag.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, metadata map[string]any) error
}

// AvatarUploader is implemented by gateways that can issue upload URLs for
// profile pictures.
type AvatarUploader interface {
	AvatarUploadURL(ctx context.Context, contentType string) (uploadURL, publicURL string, err error)
}

// Resumer is implemented by gateways holding per-session credentials. Resume
// reinstalls them after a restart; Tokens reports the current pair, which
// may have been rotated since sign-in.
type Resumer interface {
	Resume(accessToken, refreshToken string)
	Tokens() (accessToken, refreshToken string)
}
