// Package services holds the client state of Bike & Bed: the signed-in
// session, the display language, the theme and the first-run flag. Each
// service keeps its state in memory behind a mutex and mirrors every change
// to the device store, memory first.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/client/client"
	"github.com/dmitrijs2005/bikebed/internal/client/models"
	"github.com/dmitrijs2005/bikebed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/logging"
	"github.com/dmitrijs2005/bikebed/internal/netx"
	"github.com/dmitrijs2005/bikebed/internal/validate"
)

// DefaultGatewayTimeout bounds every gateway call.
const DefaultGatewayTimeout = 15 * time.Second

var ErrAvatarUnsupported = errors.New("avatar upload is not supported by this gateway")

// seams for tests
var (
	readFile       = os.ReadFile
	uploadToURL    = netx.UploadToPresignedURL
	uploadClient   = http.DefaultClient
	marshalSession = json.Marshal
)

// AuthService is the single source of truth for who is signed in.
type AuthService struct {
	client  client.Client
	store   metadata.Repository
	log     logging.Logger
	timeout time.Duration

	mu       sync.RWMutex
	session  *models.Session
	restored bool
	inflight int
}

// NewAuthService wires the service. A non-positive timeout selects
// DefaultGatewayTimeout.
func NewAuthService(c client.Client, store metadata.Repository, log logging.Logger, timeout time.Duration) *AuthService {
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return &AuthService{client: c, store: store, log: log, timeout: timeout}
}

// Restore loads the persisted session. Read or decode failures are logged
// and leave the service signed out.
func (a *AuthService) Restore(ctx context.Context) {
	defer func() {
		a.mu.Lock()
		a.restored = true
		a.mu.Unlock()
	}()

	raw, err := a.store.Get(ctx, KeySession)
	if err != nil {
		a.log.Error(ctx, "session restore failed", "error", err)
		return
	}
	if raw == nil {
		return
	}

	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		a.log.Warn(ctx, "stored session is unreadable", "error", err)
		return
	}
	if s.ID == "" {
		a.log.Warn(ctx, "stored session has no user id")
		return
	}
	if s.Metadata == nil {
		s.Metadata = models.Metadata{}
	}

	if r, ok := a.client.(client.Resumer); ok {
		r.Resume(s.AccessToken, s.RefreshToken)
	}

	a.mu.Lock()
	a.session = &s
	a.mu.Unlock()
	a.log.Debug(ctx, "session restored", "user_id", s.ID)
}

func (a *AuthService) begin() {
	a.mu.Lock()
	a.inflight++
	a.mu.Unlock()
}

func (a *AuthService) end() {
	a.mu.Lock()
	a.inflight--
	a.mu.Unlock()
}

func (a *AuthService) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout)
}

// establish makes s the active session and persists it. On a storage
// failure the previous session is put back.
func (a *AuthService) establish(ctx context.Context, s *models.Session) error {
	raw, err := marshalSession(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	a.mu.Lock()
	prev := a.session
	a.session = s
	a.mu.Unlock()

	if err := a.store.Set(ctx, KeySession, raw); err != nil {
		a.mu.Lock()
		if a.session == s {
			a.session = prev
		}
		a.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// withRotatedTokens copies the gateway's current tokens onto s.
func (a *AuthService) withRotatedTokens(s *models.Session) {
	r, ok := a.client.(client.Resumer)
	if !ok {
		return
	}
	if access, refresh := r.Tokens(); access != "" {
		s.AccessToken, s.RefreshToken = access, refresh
	}
}

func (a *AuthService) SignIn(ctx context.Context, email, password string) Result {
	if err := validate.Credentials(email, password); err != nil {
		return failed(err)
	}

	a.begin()
	defer a.end()

	gctx, cancel := a.gatewayContext(ctx)
	s, err := a.client.SignIn(gctx, email, password)
	cancel()
	if err != nil {
		a.log.Info(ctx, "sign in failed", "email", email, "error", err)
		return failed(err)
	}

	if err := a.establish(ctx, s); err != nil {
		a.log.Error(ctx, "sign in not persisted", "error", err)
		return failed(err)
	}
	a.log.Info(ctx, "signed in", "user_id", s.ID, "role", s.Role())
	return succeeded(s.Clone())
}

// SignUp registers the account and signs it in. profile may carry a role;
// it defaults to guest-user on the gateway side.
func (a *AuthService) SignUp(ctx context.Context, email, password string, profile map[string]any) Result {
	if err := validate.Credentials(email, password); err != nil {
		return failed(err)
	}
	if role, ok := profile[common.RoleMetadataKey].(string); ok {
		if err := validate.Role(role); err != nil {
			return failed(err)
		}
	}

	a.begin()
	defer a.end()

	gctx, cancel := a.gatewayContext(ctx)
	s, err := a.client.SignUp(gctx, email, password, profile)
	cancel()
	if err != nil {
		a.log.Info(ctx, "sign up failed", "email", email, "error", err)
		return failed(err)
	}

	if err := a.establish(ctx, s); err != nil {
		a.log.Error(ctx, "sign up not persisted", "error", err)
		return failed(err)
	}
	a.log.Info(ctx, "signed up", "user_id", s.ID, "role", s.Role())
	return succeeded(s.Clone())
}

// SignOut always drops the local session; a gateway failure is only logged.
func (a *AuthService) SignOut(ctx context.Context) Result {
	a.begin()
	defer a.end()

	gctx, cancel := a.gatewayContext(ctx)
	err := a.client.SignOut(gctx)
	cancel()
	if err != nil {
		a.log.Warn(ctx, "gateway sign out failed", "error", err)
	}

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()

	if err := a.store.Delete(ctx, KeySession); err != nil {
		a.log.Error(ctx, "stored session not removed", "error", err)
		return failed(fmt.Errorf("remove session: %w", err))
	}
	return succeeded(nil)
}

func (a *AuthService) ResetPassword(ctx context.Context, email string) Result {
	if err := validate.Required("email", email); err != nil {
		return failed(err)
	}

	a.begin()
	defer a.end()

	gctx, cancel := a.gatewayContext(ctx)
	defer cancel()
	if err := a.client.ResetPassword(gctx, email); err != nil {
		a.log.Info(ctx, "password reset failed", "email", email, "error", err)
		return failed(err)
	}
	return succeeded(nil)
}

// UpdateProfile merges fields into the top level of the session metadata.
// Gateways implementing client.ProfileUpdater receive the merged bag first;
// a remote failure leaves the local session as it was.
func (a *AuthService) UpdateProfile(ctx context.Context, fields map[string]any) Result {
	a.mu.RLock()
	cur := a.session
	a.mu.RUnlock()
	if cur == nil {
		return failed(common.ErrUnauthenticated)
	}

	a.begin()
	defer a.end()

	merged := cur.MergeMetadata(fields)

	if pu, ok := a.client.(client.ProfileUpdater); ok {
		gctx, cancel := a.gatewayContext(ctx)
		err := pu.UpdateProfile(gctx, merged.Metadata)
		cancel()
		if err != nil {
			a.log.Info(ctx, "remote profile update failed", "user_id", cur.ID, "error", err)
			return failed(err)
		}
		a.withRotatedTokens(merged)
	}

	if err := a.establish(ctx, merged); err != nil {
		a.log.Error(ctx, "profile not persisted", "error", err)
		return failed(err)
	}
	return succeeded(merged.Clone())
}

// UploadAvatar sends the image at path to object storage and stores its
// public URL in the "avatar" profile field.
func (a *AuthService) UploadAvatar(ctx context.Context, path string) Result {
	up, ok := a.client.(client.AvatarUploader)
	if !ok {
		return failed(ErrAvatarUnsupported)
	}
	if !a.IsAuthenticated() {
		return failed(common.ErrUnauthenticated)
	}

	body, err := readFile(path)
	if err != nil {
		return failed(fmt.Errorf("read avatar: %w", err))
	}
	contentType := netx.ImageContentType(path)

	a.begin()
	gctx, cancel := a.gatewayContext(ctx)
	uploadURL, publicURL, err := up.AvatarUploadURL(gctx, contentType)
	if err == nil {
		err = uploadToURL(gctx, uploadClient, uploadURL, contentType, body)
	}
	cancel()
	a.end()
	if err != nil {
		a.log.Warn(ctx, "avatar upload failed", "error", err)
		return failed(err)
	}

	return a.UpdateProfile(ctx, map[string]any{"avatar": publicURL})
}

// Session returns a copy of the active session, or nil.
func (a *AuthService) Session() *models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.Clone()
}

func (a *AuthService) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// Loading is true until Restore has finished and while any operation is
// in flight.
func (a *AuthService) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return !a.restored || a.inflight > 0
}
